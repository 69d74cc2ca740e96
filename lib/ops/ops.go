/*package ops implements the operations that can be run on phase space
files: combining, sampling, reweighting, randomizing, transforming,
comparing, summarizing, and packing them.

Every operation that produces a file writes it through
egsphsp.CreateAtomic, so the destination is only replaced once the new file
is complete. This also makes it safe to pass the same path as an input and
an output. Operations stream records one at a time, with the exception of
Randomize, which has to hold an entire file in memory.
*/
package ops

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Engine runs operations. Its only state is the logger, so a single Engine
// can be reused for any number of operations.
type Engine struct {
	Log logrus.FieldLogger
}

// New returns an Engine that logs to log. A nil log discards everything.
func New(log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{Log: log}
}

// readHeaders reads the headers of every input and checks that they all
// share a record layout.
func readHeaders(op string, inputs []string) ([]egsphsp.Header, error) {
	if len(inputs) == 0 {
		return nil, &egsphsp.Error{
			Kind: egsphsp.ErrValidation, Op: op,
			Msg: "at least one input file is required",
		}
	}

	hds := make([]egsphsp.Header, len(inputs))
	for i, path := range inputs {
		hd, err := egsphsp.ReadHeader(path)
		if err != nil {
			return nil, err
		}
		hds[i] = hd

		if hd.Mode != hds[0].Mode {
			return nil, egsphsp.WithPath(egsphsp.IncompatibleErrorf(
				"this file is %s, but %s is %s. Files with different "+
					"record layouts can't be merged",
				hd.Mode, inputs[0], hds[0].Mode,
			), op, path)
		}
	}
	return hds, nil
}

// stream calls fn on every record of the file at path, in order.
func stream(path string, fn func(r *egsphsp.Record) error) error {
	rd, err := egsphsp.Open(path)
	if err != nil {
		return err
	}
	defer rd.Close()

	return streamReader(rd, fn)
}

func streamReader(rd *egsphsp.Reader, fn func(r *egsphsp.Record) error) error {
	for {
		r, err := rd.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err = fn(&r); err != nil {
			return err
		}
	}
}

// commit finalizes and commits wr with the header hd.
func commit(wr *egsphsp.Writer, hd egsphsp.Header) error {
	if err := wr.Finalize(hd); err != nil {
		return egsphsp.WithPath(err, "finalize", wr.Path())
	}
	return wr.Commit()
}
