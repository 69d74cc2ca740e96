package ops

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/beamdpr/lib/compress"
	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Pack writes a compressed copy of the phase space file input to output.
// input is fully validated while it's read, so a packed file always unpacks
// to a valid phase space file.
func (e *Engine) Pack(input, output string, level int) error {
	if err := compress.CheckLevel(level); err != nil {
		return egsphsp.WithPath(err, "pack", input)
	}

	rd, err := egsphsp.Open(input)
	if err != nil {
		return err
	}
	defer rd.Close()

	f, err := egsphsp.CreateTemp(output)
	if err != nil {
		return err
	}
	defer f.Discard()

	wr, err := compress.NewPaddedWriter(f, rd.Header, rd.Padding(), level)
	if err != nil {
		return egsphsp.WithPath(err, "pack", output)
	}
	err = streamReader(rd, func(r *egsphsp.Record) error {
		return wr.Write(*r)
	})
	if err != nil {
		return err
	}
	if err := wr.Close(); err != nil {
		return egsphsp.WithPath(err, "pack", output)
	}
	if err := f.Commit(); err != nil {
		return err
	}

	log := e.Log.WithFields(logrus.Fields{
		"input": input, "output": output, "records": rd.TotalParticles,
		"level": level,
	})
	if in, out, ok := sizes(input, output); ok {
		log = log.WithField("ratio", float64(in)/float64(out))
	}
	log.Info("Packed file.")
	return nil
}

// Unpack restores the phase space file packed into input by Pack and
// writes it to output.
func (e *Engine) Unpack(input, output string) error {
	in, err := os.Open(input)
	if err != nil {
		return egsphsp.IOError("open", input, err)
	}
	defer in.Close()

	rd, err := compress.NewReader(in)
	if err != nil {
		return egsphsp.WithPath(err, "unpack", input)
	}
	hd := rd.Header

	wr, err := egsphsp.CreateAtomic(output, hd)
	if err != nil {
		return err
	}
	defer wr.Discard()
	wr.SetPadding(rd.Padding())

	for {
		r, err := rd.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return egsphsp.WithPath(err, "unpack", input)
		}
		if err := wr.Write(r); err != nil {
			return err
		}
	}
	if err := commit(wr, hd); err != nil {
		return err
	}

	e.Log.WithFields(logrus.Fields{
		"input": input, "output": output, "records": hd.TotalParticles,
	}).Info("Unpacked file.")
	return nil
}

func sizes(a, b string) (int64, int64, bool) {
	ia, err := os.Stat(a)
	if err != nil {
		return 0, 0, false
	}
	ib, err := os.Stat(b)
	if err != nil || ib.Size() == 0 {
		return 0, 0, false
	}
	return ia.Size(), ib.Size(), true
}
