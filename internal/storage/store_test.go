package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
)

func runFountain(t *testing.T) (Run, *sim.Result) {
	t.Helper()
	cfg := config.GetPreset("fountain")
	cfg.Run.Duration = 0.5
	cfg.Run.SampleEvery = 5

	r, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	r.AddMetric(metrics.NewKineticEnergy())
	r.AddMetric(metrics.NewPeakSpeed())

	result, err := r.Run(context.Background(), cfg.RunConfig())
	if err != nil {
		t.Fatal(err)
	}
	run := Run{Preset: cfg.Preset, Seed: cfg.Spawn.Seed, Solver: r.Solver().Config(), Config: cfg.RunConfig()}
	return run, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	run, result := runFountain(t)

	runID, err := st.Save(run, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "fountain" {
		t.Errorf("expected preset 'fountain', got '%s'", meta.Preset)
	}
	if meta.Frames != 30 || meta.Particles != 60 {
		t.Errorf("expected 30 frames of 60 particles, got %d and %d", meta.Frames, meta.Particles)
	}
	if meta.Solver.SubSteps != run.Solver.SubSteps || meta.Solver.Response != "momentum" {
		t.Errorf("solver params not recorded: %+v", meta.Solver)
	}
	if meta.Metrics["kinetic_energy"] != result.Metrics["kinetic_energy"] {
		t.Errorf("metric mismatch: %f vs %f", meta.Metrics["kinetic_energy"], result.Metrics["kinetic_energy"])
	}
}

func TestStoreLoadFrames(t *testing.T) {
	st := New(t.TempDir())
	run, result := runFountain(t)
	runID, err := st.Save(run, result)
	if err != nil {
		t.Fatal(err)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != len(result.Frames) {
		t.Fatalf("expected %d frames, got %d", len(result.Frames), len(frames))
	}
	for i, f := range frames {
		want := result.Frames[i]
		if f.Index != want.Index || f.Count != want.Count || f.Time != want.Time {
			t.Errorf("frame %d: got %+v, want %+v", i, f, want)
		}
		if f.Metrics["peak_speed"] != want.Metrics["peak_speed"] {
			t.Errorf("frame %d: peak speed %f, want %f", i, f.Metrics["peak_speed"], want.Metrics["peak_speed"])
		}
	}
}

func TestStoreLoadParticles(t *testing.T) {
	st := New(t.TempDir())
	run, result := runFountain(t)
	runID, err := st.Save(run, result)
	if err != nil {
		t.Fatal(err)
	}

	ps, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(ps) != len(result.Final) {
		t.Fatalf("expected %d particles, got %d", len(result.Final), len(ps))
	}
	for i := range ps {
		if ps[i].Position != result.Final[i].Position || ps[i].Previous != result.Final[i].Previous {
			t.Fatalf("particle %d not restored exactly: %+v vs %+v", i, ps[i], result.Final[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	run, result := runFountain(t)

	first, err := st.Save(run, result)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Save(run, result)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("runs saved under the same id %q", first)
	}

	if err := os.Mkdir(filepath.Join(dir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreCorruptParticles(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	run, result := runFountain(t)
	runID, err := st.Save(run, result)
	if err != nil {
		t.Fatal(err)
	}

	bad := "slot,x,y,prev_x,prev_y\n0,1,2,3,oops\n"
	if err := os.WriteFile(filepath.Join(dir, runID, particlesFile), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadParticles(runID); err == nil {
		t.Error("expected parse error")
	}
}
