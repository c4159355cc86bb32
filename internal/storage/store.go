package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/solver"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	particlesFile = "particles.csv"
)

var frameColumns = []string{"time", "index", "count", "contacts", "boundary_hits"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SolverParams struct {
	Gravity    dynamo.Vec2 `json:"gravity"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Radius     float64     `json:"radius"`
	Damping    float64     `json:"damping"`
	SubSteps   int         `json:"sub_steps"`
	MaxFrameDt float64     `json:"max_frame_dt"`
	CellSize   float64     `json:"cell_size"`
	Broadphase string      `json:"broadphase"`
	Response   string      `json:"response"`
}

func ParamsOf(cfg solver.Config) SolverParams {
	return SolverParams{
		Gravity:    cfg.Gravity,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Radius:     cfg.Radius,
		Damping:    cfg.Damping,
		SubSteps:   cfg.SubSteps,
		MaxFrameDt: cfg.MaxFrameDt,
		CellSize:   cfg.CellSize,
		Broadphase: string(cfg.Broadphase),
		Response:   string(cfg.Response),
	}
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Solver    SolverParams       `json:"solver"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run describes what produced a result.
type Run struct {
	Preset string
	Seed   int64
	Solver solver.Config
	Config sim.Config
}

// Save writes a run directory and returns its ID.
func (s *Store) Save(run Run, result *sim.Result) (string, error) {
	name := run.Preset
	if name == "" {
		name = "run"
	}
	runID, runDir, err := s.makeRunDir(name)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    run.Preset,
		Timestamp: time.Now(),
		Seed:      run.Seed,
		FrameDt:   run.Config.FrameDt,
		Duration:  run.Config.Duration,
		Frames:    result.FramesRun,
		Particles: len(result.Final),
		Elapsed:   result.Elapsed,
		Solver:    ParamsOf(run.Solver),
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), result.Final); err != nil {
		return "", err
	}
	return runID, nil
}

// makeRunDir creates a fresh directory, suffixing the ID if a run was
// saved under the same name in the same second.
func (s *Store) makeRunDir(name string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var names []string
	if len(frames) > 0 {
		for name := range frames[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string{}, frameColumns...), names...)); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			formatFloat(fr.Time),
			strconv.Itoa(fr.Index),
			strconv.Itoa(fr.Count),
			strconv.Itoa(fr.Contacts),
			strconv.Itoa(fr.BoundaryHits),
		}
		for _, name := range names {
			row = append(row, formatFloat(fr.Metrics[name]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeParticles(path string, ps []dynamo.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"slot", "x", "y", "prev_x", "prev_y"}); err != nil {
		return err
	}
	for i, p := range ps {
		row := []string{
			strconv.Itoa(i),
			formatFloat(p.Position.X),
			formatFloat(p.Position.Y),
			formatFloat(p.Previous.X),
			formatFloat(p.Previous.Y),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// formatFloat keeps full precision so saved particles reload bit-for-bit.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	records, err := s.readCSV(runID, framesFile)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	header := records[0]
	if len(header) < len(frameColumns) {
		return nil, fmt.Errorf("run %s: %s: short header", runID, framesFile)
	}
	names := header[len(frameColumns):]

	frames := make([]sim.Frame, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("run %s: %s line %d: expected %d fields, got %d", runID, framesFile, line+2, len(header), len(record))
		}
		p := fieldParser{record: record}
		f := sim.Frame{
			Time:         p.float(0),
			Index:        p.atoi(1),
			Count:        p.atoi(2),
			Contacts:     p.atoi(3),
			BoundaryHits: p.atoi(4),
		}
		if len(names) > 0 {
			f.Metrics = make(map[string]float64, len(names))
			for i, name := range names {
				f.Metrics[name] = p.float(len(frameColumns) + i)
			}
		}
		if p.err != nil {
			return nil, fmt.Errorf("run %s: %s line %d: %w", runID, framesFile, line+2, p.err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func (s *Store) LoadParticles(runID string) ([]dynamo.Particle, error) {
	records, err := s.readCSV(runID, particlesFile)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Particle{}, nil
	}

	ps := make([]dynamo.Particle, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != 5 {
			return nil, fmt.Errorf("run %s: %s line %d: expected 5 fields, got %d", runID, particlesFile, line+2, len(record))
		}
		p := fieldParser{record: record}
		particle := dynamo.Particle{
			Position: dynamo.Vec2{X: p.float(1), Y: p.float(2)},
			Previous: dynamo.Vec2{X: p.float(3), Y: p.float(4)},
		}
		if p.err != nil {
			return nil, fmt.Errorf("run %s: %s line %d: %w", runID, particlesFile, line+2, p.err)
		}
		ps = append(ps, particle)
	}
	return ps, nil
}

// fieldParser keeps the first conversion error.
type fieldParser struct {
	record []string
	err    error
}

func (p *fieldParser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.record[i], 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *fieldParser) atoi(i int) int {
	v, err := strconv.Atoi(p.record[i])
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
