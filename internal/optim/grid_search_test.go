package optim

import (
	"context"
	"testing"

	"github.com/san-kum/aerodyn/internal/config"
	"github.com/san-kum/aerodyn/internal/experiment"
)

func TestPoints(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2}, {10, 20, 30}})
	pts := g.Points()
	if len(pts) != 6 {
		t.Fatalf("points: got %v, want 6", len(pts))
	}
	if pts[0]["a"] != 1 || pts[0]["b"] != 10 || pts[5]["a"] != 2 || pts[5]["b"] != 30 {
		t.Errorf("order: got first %v last %v", pts[0], pts[5])
	}
}

func TestSearchAltitude(t *testing.T) {
	reg := experiment.NewRegistry()
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Duration = 0.5
		cfg.Init.Altitude = p["altitude"]
		e := experiment.New(cfg)
		return e, e.Setup(reg, nil, []string{"min_agl"})
	}

	g := NewGridSearch([]string{"altitude"}, [][]float64{{1500, 600, 900}})
	g.SetLimit(2)
	params, best, err := g.Search(context.Background(), build, "min_agl")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if params["altitude"] != 600 {
		t.Errorf("best: got %v, want altitude 600", params)
	}
	if best <= 0 || best > 600 {
		t.Errorf("min agl: got %v, want in (0, 600]", best)
	}
}

func TestSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"a"}, nil)
	if _, _, err := g.Search(context.Background(), nil, "x"); err == nil {
		t.Error("expected error for mismatched ranges")
	}

	g = NewGridSearch([]string{"a"}, [][]float64{{1}})
	bad := func(map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Aircraft = "zeppelin"
		e := experiment.New(cfg)
		return e, e.Setup(experiment.NewRegistry(), nil, nil)
	}
	if _, _, err := g.Search(context.Background(), bad, "min_agl"); err == nil {
		t.Error("expected error when nothing builds")
	}
}
