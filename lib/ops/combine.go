package ops

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Combine concatenates the records of inputs, in order, into output. The
// output header is computed from the input headers alone: counts and source
// particles are summed, and energy extrema are taken over all inputs.
// Weights are not adjusted.
//
// If deleteInputs is set, inputs are deleted once output has been written
// and committed. A failed deletion is reported, but output is kept.
func (e *Engine) Combine(inputs []string, output string, deleteInputs bool) error {
	hds, err := readHeaders("combine", inputs)
	if err != nil {
		return err
	}

	hd := egsphsp.Header{Mode: hds[0].Mode}
	total := int64(0)
	for i := range hds {
		total += int64(hds[i].TotalParticles)
		hd.Merge(&hds[i])
	}
	if total > math.MaxInt32 {
		return &egsphsp.Error{
			Kind: egsphsp.ErrValidation, Op: "combine", Path: output,
			Msg: fmt.Sprintf("the inputs hold %d records, but a phase "+
				"space file can hold at most %d", total, math.MaxInt32),
		}
	}
	if err := hd.Validate(); err != nil {
		return egsphsp.WithPath(err, "combine", output)
	}

	log := e.Log.WithFields(logrus.Fields{
		"inputs": len(inputs), "output": output, "records": hd.TotalParticles,
	})
	log.Debug("Combining files.")

	wr, err := egsphsp.CreateAtomic(output, hd)
	if err != nil {
		return err
	}
	defer wr.Discard()

	for _, path := range inputs {
		err := stream(path, func(r *egsphsp.Record) error {
			return wr.Write(*r)
		})
		if err != nil {
			return err
		}
		log.WithField("input", path).Debug("Copied input.")
	}

	if err := commit(wr, hd); err != nil {
		return err
	}
	log.Info("Combined files.")

	if deleteInputs {
		return e.deleteFiles(inputs, output)
	}
	return nil
}

// deleteFiles removes every path except keep, continuing past failures and
// returning the first one.
func (e *Engine) deleteFiles(paths []string, keep string) error {
	var first error
	for _, path := range uniqueFiles(paths) {
		if sameFile(path, keep) {
			continue
		}
		if err := os.Remove(path); err != nil {
			e.Log.WithField("input", path).WithError(err).
				Warn("Could not delete input.")
			if first == nil {
				first = egsphsp.IOError("delete", path, err)
			}
			continue
		}
		e.Log.WithField("input", path).Debug("Deleted input.")
	}
	return first
}

// uniqueFiles drops every path that names the same file as an earlier one.
// Paths that can't be stat'ed are kept so that removing them reports why.
func uniqueFiles(paths []string) []string {
	out := []string{}
	seen := []os.FileInfo{}
outer:
	for _, path := range paths {
		info, err := os.Stat(path)
		if err == nil {
			for _, prev := range seen {
				if os.SameFile(info, prev) {
					continue outer
				}
			}
			seen = append(seen, info)
		}
		out = append(out, path)
	}
	return out
}

// sameFile reports whether a and b name the same existing file.
func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
