package ops

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// WeightFunc maps a radial bin's statistic to the factor that the weights
// of records in that bin are multiplied by.
type WeightFunc func(x float64) float64

// WeightFunctions lists the names accepted by WeightFunction.
var WeightFunctions = []string{"linear", "inverse", "constant"}

// WeightFunction returns a named weight function with coefficient c:
//
//   linear   - c*x
//   inverse  - c/x
//   constant - c
func WeightFunction(name string, c float64) (WeightFunc, error) {
	switch name {
	case "linear":
		return func(x float64) float64 { return c * x }, nil
	case "inverse":
		return func(x float64) float64 { return c / x }, nil
	case "constant":
		return func(x float64) float64 { return c }, nil
	}
	return nil, egsphsp.ValidationErrorf("%q is not a weight function. "+
		"The valid functions are %v", name, WeightFunctions)
}

// Histogram is a radial histogram of a file's records, with equal-width
// bins over [0, MaxRadius). Records at or beyond MaxRadius are counted in
// the last bin.
type Histogram struct {
	MaxRadius float64
	// Edges has one more element than Counts.
	Edges  []float64
	Counts []float64
	total  float64
}

// NewHistogram creates an empty histogram.
func NewHistogram(bins int, maxRadius float64) (*Histogram, error) {
	if bins < 1 {
		return nil, egsphsp.ValidationErrorf("a radial histogram needs at "+
			"least one bin, not %d", bins)
	} else if !(maxRadius > 0) || math.IsInf(maxRadius, 0) {
		return nil, egsphsp.ValidationErrorf("the maximum radius must be "+
			"positive and finite, not %g", maxRadius)
	}

	return &Histogram{
		MaxRadius: maxRadius,
		Edges:     floats.Span(make([]float64, bins+1), 0, maxRadius),
		Counts:    make([]float64, bins),
	}, nil
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int { return len(h.Counts) }

// Bin returns the index of the bin that radius r falls in.
func (h *Histogram) Bin(r float64) int {
	last := len(h.Counts) - 1
	if !(r < h.MaxRadius) {
		return last
	}
	// Edges are sorted; the first edge above r closes r's bin.
	i := sort.SearchFloat64s(h.Edges[1:], r)
	if i < len(h.Edges)-1 && h.Edges[i+1] == r {
		i++
	}
	if i > last {
		return last
	}
	return i
}

// Add counts a record.
func (h *Histogram) Add(r *egsphsp.Record) {
	i := h.Bin(r.R())
	h.Counts[i]++
	h.total++
}

// Total returns the number of records counted.
func (h *Histogram) Total() float64 { return h.total }

// Statistic returns the count of bin i relative to the mean count per bin.
// A beam that is flat in r gives 1 in every bin.
func (h *Histogram) Statistic(i int) float64 {
	if h.total == 0 {
		return 0
	}
	return h.Counts[i] / (h.total / float64(len(h.Counts)))
}

// Summary returns the mean and standard deviation of the bin counts.
func (h *Histogram) Summary() (mean, std float64) {
	if len(h.Counts) < 2 {
		return h.total, 0
	}
	return stat.MeanStdDev(h.Counts, nil)
}

// Factors evaluates fn on the statistic of every occupied bin. Empty bins
// get a factor of zero, since no record will ever look them up.
func (h *Histogram) Factors(fn WeightFunc) ([]float64, error) {
	out := make([]float64, len(h.Counts))
	for i := range out {
		if h.Counts[i] == 0 {
			continue
		}
		out[i] = fn(h.Statistic(i))
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) || out[i] < 0 {
			return nil, egsphsp.ValidationErrorf("the weight function "+
				"gives %g for bin %d (statistic %g), but weight factors "+
				"must be finite and non-negative",
				out[i], i, h.Statistic(i))
		}
	}
	return out, nil
}

// RadialHistogram reads every remaining record of rd into a new histogram.
func RadialHistogram(
	rd *egsphsp.Reader, bins int, maxRadius float64,
) (*Histogram, error) {
	h, err := NewHistogram(bins, maxRadius)
	if err != nil {
		return nil, err
	}
	err = streamReader(rd, func(r *egsphsp.Record) error {
		h.Add(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Reweight multiplies the weight of every record in input by a factor that
// depends on its distance from the z axis, and writes the result to output.
//
// This takes two passes over input. The first builds a radial histogram
// with the given number of bins; the second multiplies each record's weight
// by fn applied to its bin's Statistic. The header is copied unchanged.
// input and output may be the same file: it is only replaced after the
// second pass has finished.
func (e *Engine) Reweight(
	input, output string, fn WeightFunc, bins int, maxRadius float64,
) error {
	if fn == nil {
		return egsphsp.ValidationErrorf("no weight function was given")
	}

	// Pass 1.
	rd, err := egsphsp.Open(input)
	if err != nil {
		return err
	}
	hd := rd.Header
	h, err := RadialHistogram(rd, bins, maxRadius)
	rd.Close()
	if err != nil {
		return egsphsp.WithPath(err, "reweight", input)
	}

	factors, err := h.Factors(fn)
	if err != nil {
		return egsphsp.WithPath(err, "reweight", input)
	}

	log := e.Log.WithFields(logrus.Fields{
		"input": input, "output": output, "bins": bins,
		"max_radius": maxRadius,
	})
	log.WithField("histogram", h.String()).Debug("Built radial histogram.")

	// Pass 2.
	wr, err := egsphsp.CreateAtomic(output, hd)
	if err != nil {
		return err
	}
	defer wr.Discard()

	err = stream(input, func(r *egsphsp.Record) error {
		r.Weight = float32(float64(r.Weight) * factors[h.Bin(r.R())])
		return wr.Write(*r)
	})
	if err != nil {
		return err
	}
	if err := commit(wr, hd); err != nil {
		return err
	}

	log.Info("Reweighted file.")
	return nil
}

// String returns a short description of the histogram, used in logs.
func (h *Histogram) String() string {
	mean, std := h.Summary()
	return fmt.Sprintf("%d bins over [0, %g) cm, %g records, "+
		"%.4g +/- %.4g per bin", len(h.Counts), h.MaxRadius, h.total,
		mean, std)
}
