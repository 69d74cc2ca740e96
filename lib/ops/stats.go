package ops

import (
	"io"
	"math"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Stats summarizes a file using only its header.
type Stats struct {
	Mode                   string  `json:"mode" yaml:"mode"`
	TotalParticles         int32   `json:"total_particles" yaml:"total_particles"`
	TotalPhotons           int32   `json:"total_photons" yaml:"total_photons"`
	TotalElectrons         int32   `json:"total_electrons" yaml:"total_electrons"`
	MaxEnergy              float32 `json:"maximum_energy" yaml:"maximum_energy"`
	MinEnergy              float32 `json:"minimum_energy" yaml:"minimum_energy"`
	TotalParticlesInSource float32 `json:"total_particles_in_source" yaml:"total_particles_in_source"`
}

// ScanStats are statistics that need a full pass over the records.
type ScanStats struct {
	Records      int64   `json:"records" yaml:"records"`
	Photons      int64   `json:"photons" yaml:"photons"`
	NewHistories int64   `json:"new_histories" yaml:"new_histories"`
	Produced     int64   `json:"produced" yaml:"produced"`
	MinX         float32 `json:"min_x" yaml:"min_x"`
	MaxX         float32 `json:"max_x" yaml:"max_x"`
	MinY         float32 `json:"min_y" yaml:"min_y"`
	MaxY         float32 `json:"max_y" yaml:"max_y"`
	TotalWeight  float64 `json:"total_weight" yaml:"total_weight"`
}

// Stats returns the header statistics of the file at path.
func (e *Engine) Stats(path string) (Stats, error) {
	hd, err := egsphsp.ReadHeader(path)
	if err != nil {
		return Stats{}, err
	}
	return HeaderStats(&hd), nil
}

// HeaderStats converts a header to Stats.
func HeaderStats(hd *egsphsp.Header) Stats {
	return Stats{
		Mode:                   hd.Mode.String(),
		TotalParticles:         hd.TotalParticles,
		TotalPhotons:           hd.TotalPhotons,
		TotalElectrons:         hd.Electrons(),
		MaxEnergy:              hd.MaxEnergy,
		MinEnergy:              hd.MinEnergy,
		TotalParticlesInSource: hd.TotalParticlesInSource,
	}
}

// Scan reads every record of the file at path once and returns statistics
// that can't be read off the header. Memory use doesn't depend on the size
// of the file.
func (e *Engine) Scan(path string) (ScanStats, error) {
	rd, err := egsphsp.Open(path)
	if err != nil {
		return ScanStats{}, err
	}
	defer rd.Close()
	return ScanReader(rd)
}

// ScanReader computes ScanStats over the remaining records of rd.
func ScanReader(rd *egsphsp.Reader) (ScanStats, error) {
	s := ScanStats{
		MinX: float32(math.Inf(+1)), MaxX: float32(math.Inf(-1)),
		MinY: float32(math.Inf(+1)), MaxY: float32(math.Inf(-1)),
	}
	err := streamReader(rd, func(r *egsphsp.Record) error {
		s.Records++
		if r.Photon() {
			s.Photons++
		}
		if r.NewHistory {
			s.NewHistories++
		}
		if r.Produced() {
			s.Produced++
		}
		s.MinX, s.MaxX = min32(s.MinX, r.X), max32(s.MaxX, r.X)
		s.MinY, s.MaxY = min32(s.MinY, r.Y), max32(s.MaxY, r.Y)
		s.TotalWeight += float64(r.Weight)
		return nil
	})
	if err != nil {
		return ScanStats{}, err
	}
	if s.Records == 0 {
		s.MinX, s.MaxX, s.MinY, s.MaxY = 0, 0, 0, 0
	}
	return s, nil
}

// Records returns the first n records of the file at path, or all of them
// if n is negative.
func (e *Engine) Records(path string, n int) ([]egsphsp.Record, error) {
	rd, err := egsphsp.Open(path)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	out := []egsphsp.Record{}
	for n < 0 || len(out) < n {
		r, err := rd.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func min32(x, y float32) float32 {
	if y < x {
		return y
	}
	return x
}

func max32(x, y float32) float32 {
	if y > x {
		return y
	}
	return x
}
