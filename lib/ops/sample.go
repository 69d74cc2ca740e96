package ops

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
	"github.com/phil-mansfield/beamdpr/lib/rng"
)

// Sample thins the concatenation of inputs into output. Each record is kept
// independently with probability keepProbability. The decision for every
// record is made by a single generator seeded once with seed and advanced
// exactly once per input record, so the same inputs, probability, and seed
// always give byte-identical output.
//
// Weights are not modified. The output header's counts and energy extrema
// describe the kept records, and its source-particle count is the inputs'
// total scaled by keepProbability so that quantities normalized per source
// particle are unbiased. If every record is kept, the header is the same
// aggregate Combine would write.
func (e *Engine) Sample(
	inputs []string, output string, keepProbability float64, seed uint64,
) error {
	if math.IsNaN(keepProbability) || keepProbability < 0 ||
		keepProbability > 1 {
		return &egsphsp.Error{
			Kind: egsphsp.ErrValidation, Op: "sample", Path: output,
			Msg: fmt.Sprintf("the keep probability must be in [0, 1], "+
				"not %g", keepProbability),
		}
	}

	hds, err := readHeaders("sample", inputs)
	if err != nil {
		return err
	}
	source := float64(0)
	for i := range hds {
		source += float64(hds[i].TotalParticlesInSource)
	}

	log := e.Log.WithFields(logrus.Fields{
		"inputs": len(inputs), "output": output,
		"probability": keepProbability, "seed": seed,
	})
	log.Debug("Sampling files.")

	wr, err := egsphsp.CreateAtomic(output, egsphsp.Header{Mode: hds[0].Mode})
	if err != nil {
		return err
	}
	defer wr.Discard()

	gen := rng.New(seed)
	seen := 0
	for _, path := range inputs {
		err := stream(path, func(r *egsphsp.Record) error {
			seen++
			if gen.Uniform() < keepProbability {
				return wr.Write(*r)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	hd := wr.Tally()
	hd.TotalParticlesInSource = float32(source * keepProbability)
	if int(hd.TotalParticles) == seen {
		// Nothing was dropped, so this is a plain concatenation.
		hd = egsphsp.Header{Mode: hds[0].Mode}
		for i := range hds {
			hd.Merge(&hds[i])
		}
	}
	if err := commit(wr, hd); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"records": seen, "kept": hd.TotalParticles,
	}).Info("Sampled files.")
	return nil
}
