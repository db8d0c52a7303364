package store

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/sim"
)

func testResult() *sim.Result {
	frames := make([]sim.Frame, 3)
	for i := range frames {
		s := dynamo.NewState()
		s.Pos = mgl64.Vec3{float64(i) * 3, 0, 100 - float64(i)}
		s.V = mgl64.Vec3{30, 0, -1}
		frames[i] = sim.Frame{Step: i, Time: float64(i) * 0.1, State: s, AGL: 99 - float64(i), Airspeed: 30, Fuel: 80}
	}
	frames[2].Crashed = true
	return &sim.Result{
		Frames:     frames,
		Metrics:    map[string]float64{"min_agl": 97},
		StepsTaken: 2,
		Crashed:    true,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Aircraft: "glider", Start: "cruise", Dt: 0.1, Duration: 0.2}, testResult())
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
	if meta.Aircraft != "glider" || meta.Steps != 2 || !meta.Crashed {
		t.Errorf("metadata: got %+v", meta)
	}
	if meta.Metrics["min_agl"] != 97 {
		t.Errorf("min_agl: got %v, want 97", meta.Metrics["min_agl"])
	}

	header, rows, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(header) != len(columns) || header[3] != "z" {
		t.Errorf("header: got %v", header)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %v, want 3", len(rows))
	}
	if got := rows[1][3]; got != 99 {
		t.Errorf("z: got %v, want 99", got)
	}
	if rows[1][len(columns)-1] != 0 || rows[2][len(columns)-1] != 1 {
		t.Errorf("crashed column: got %v and %v", rows[1][len(columns)-1], rows[2][len(columns)-1])
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, ac := range []string{"glider", "jet"} {
		if _, err := st.Save(RunMetadata{Aircraft: ac}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// stray directories are skipped
	if err := os.Mkdir(filepath.Join(dir, "runs", "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runID, err := st.Save(RunMetadata{Aircraft: "trainer"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	for _, name := range []string{metaFile, framesFile} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, _, err := st.LoadFrames("nope"); err == nil {
		t.Error("expected error for missing frames")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{Aircraft: "jet", Start: "cruise"}, testResult()); err != nil {
		t.Fatalf("export: %v", err)
	}
	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Aircraft != "jet" || got.Steps != 2 || len(got.Frames) != 3 {
		t.Errorf("export: got aircraft %q steps %v frames %v", got.Aircraft, got.Steps, len(got.Frames))
	}
	if f := got.Frames[2]; f.Pos[0] != 6 || !f.Crashed {
		t.Errorf("last frame: got %+v", f)
	}
}

func TestRecordAngles(t *testing.T) {
	f := sim.Frame{State: dynamo.NewState()}
	f.State.SetupOrientationFromAoA(0.1)
	r := NewRecord(&f)
	if want := 0.1 * 180 / math.Pi; math.Abs(r.Pitch-want) > 1e-9 {
		t.Errorf("pitch: got %v, want %v", r.Pitch, want)
	}
}
