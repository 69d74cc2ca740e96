package ops

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
	"github.com/phil-mansfield/beamdpr/lib/transform"
)

// Transform applies the homogeneous matrices ms, in order, to every record
// of input and writes the result to output. The matrices are composed first,
// so the file is only read once. To transform a file in place, pass the same
// path twice. The header is unchanged: none of the supported
// transformations affect counts, energies, or weights.
func (e *Engine) Transform(input, output string, ms ...mat.Matrix) error {
	if len(ms) == 0 {
		return egsphsp.ValidationErrorf("no transformation was given")
	}
	for _, m := range ms {
		if err := transform.IsAffine2D(m); err != nil {
			return egsphsp.WithPath(err, "transform", input)
		}
	}
	m := transform.Compose(ms...)

	rd, err := egsphsp.Open(input)
	if err != nil {
		return err
	}
	defer rd.Close()
	hd := rd.Header

	wr, err := egsphsp.CreateAtomic(output, hd)
	if err != nil {
		return err
	}
	defer wr.Discard()

	err = streamReader(rd, func(r *egsphsp.Record) error {
		return wr.Write(transform.Apply(*r, m))
	})
	if err != nil {
		return err
	}
	if err := commit(wr, hd); err != nil {
		return err
	}

	e.Log.WithFields(logrus.Fields{
		"input": input, "output": output, "records": hd.TotalParticles,
		"matrix": mat.Formatted(m, mat.Squeeze()),
	}).Info("Transformed file.")
	return nil
}

// Translate shifts every record of input by (dx, dy) cm.
func (e *Engine) Translate(input, output string, dx, dy float64) error {
	return e.Transform(input, output, transform.Translation(dx, dy))
}

// Rotate rotates every record of input by theta radians counter-clockwise
// around the z axis.
func (e *Engine) Rotate(input, output string, theta float64) error {
	return e.Transform(input, output, transform.Rotation(theta))
}

// Reflect reflects every record of input across the line through the
// origin with direction (x, y).
func (e *Engine) Reflect(input, output string, x, y float64) error {
	m, err := transform.Reflection(x, y)
	if err != nil {
		return egsphsp.WithPath(err, "reflect", input)
	}
	return e.Transform(input, output, m)
}
