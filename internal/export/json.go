package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
)

type FrameData struct {
	Time         float64            `json:"time"`
	Index        int                `json:"index"`
	Count        int                `json:"count"`
	Contacts     int                `json:"contacts"`
	BoundaryHits int                `json:"boundary_hits"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

type ParticleData struct {
	Position dynamo.Vec2 `json:"position"`
	Previous dynamo.Vec2 `json:"previous"`
}

type ExportData struct {
	ID        string               `json:"id"`
	Preset    string               `json:"preset"`
	Seed      int64                `json:"seed"`
	FrameDt   float64              `json:"frame_dt"`
	Duration  float64              `json:"duration"`
	Solver    storage.SolverParams `json:"solver"`
	Metrics   map[string]float64   `json:"metrics"`
	Frames    []FrameData          `json:"frames"`
	Particles []ParticleData       `json:"particles"`
}

// NewExportData flattens a stored run into one document.
func NewExportData(meta *storage.RunMetadata, frames []sim.Frame, ps []dynamo.Particle) ExportData {
	data := ExportData{
		ID:        meta.ID,
		Preset:    meta.Preset,
		Seed:      meta.Seed,
		FrameDt:   meta.FrameDt,
		Duration:  meta.Duration,
		Solver:    meta.Solver,
		Metrics:   meta.Metrics,
		Frames:    make([]FrameData, len(frames)),
		Particles: make([]ParticleData, len(ps)),
	}
	for i, f := range frames {
		data.Frames[i] = FrameData{
			Time:         f.Time,
			Index:        f.Index,
			Count:        f.Count,
			Contacts:     f.Contacts,
			BoundaryHits: f.BoundaryHits,
			Metrics:      f.Metrics,
		}
	}
	for i, p := range ps {
		data.Particles[i] = ParticleData{Position: p.Position, Previous: p.Previous}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
