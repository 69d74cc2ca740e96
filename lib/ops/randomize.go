package ops

import (
	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
	"github.com/phil-mansfield/beamdpr/lib/rng"
)

// Randomize shuffles the records of the file at path in place. Every
// permutation is equally likely, and the same seed always gives the same
// permutation. The header is unchanged.
//
// The whole file is held in memory while it is shuffled.
func (e *Engine) Randomize(path string, seed uint64) error {
	rd, err := egsphsp.Open(path)
	if err != nil {
		return err
	}
	hd := rd.Header
	records, err := rd.ReadAll()
	rd.Close()
	if err != nil {
		return err
	}

	Shuffle(records, seed)

	wr, err := egsphsp.CreateAtomic(path, hd)
	if err != nil {
		return err
	}
	defer wr.Discard()

	for i := range records {
		if err := wr.Write(records[i]); err != nil {
			return err
		}
	}
	if err := commit(wr, hd); err != nil {
		return err
	}

	e.Log.WithFields(logrus.Fields{
		"input": path, "records": len(records), "seed": seed,
	}).Info("Randomized file.")
	return nil
}

// Shuffle applies the seeded permutation used by Randomize to records.
func Shuffle(records []egsphsp.Record, seed uint64) {
	gen := rng.New(seed)
	gen.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}
