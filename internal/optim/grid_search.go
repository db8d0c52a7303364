package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/aerodyn/internal/experiment"
)

// Builder sets up an experiment for one point of the grid.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
}

// NewGridSearch searches every combination of the values in ranges, one
// range per parameter name.
func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// SetLimit bounds the number of runs in flight; zero means no bound.
func (g *GridSearch) SetLimit(n int) { g.limit = n }

// Points lists the grid in order, the last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.points(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) points(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.points(depth+1, current, out)
	}
	delete(current, name)
}

// Search flies every grid point concurrently and returns the parameters
// with the smallest value of metricName. Points that fail to build, crash
// or stop early are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d parameters, %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	exps := make(map[string]*experiment.Experiment, len(points))
	for i, p := range points {
		exp, err := build(p)
		if err != nil {
			continue
		}
		exps[fmt.Sprint(i)] = exp
	}
	if len(exps) == 0 {
		return nil, 0, errors.New("grid search: no point could be built")
	}

	results, err := experiment.RunAll(ctx, exps, g.limit)
	if err != nil && ctx.Err() != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for i, p := range points {
		key := fmt.Sprint(i)
		res, ok := results[key]
		if !ok || res.Crashed || res.StepsTaken < steps(exps[key]) {
			continue
		}
		val, ok := res.Metrics[metricName]
		if !ok {
			return nil, 0, fmt.Errorf("grid search: run has no metric %q", metricName)
		}
		if val < best {
			best = val
			bestParams = p
		}
	}
	if bestParams == nil {
		return nil, 0, errors.New("grid search: every point crashed or failed")
	}
	return bestParams, best, nil
}

func steps(e *experiment.Experiment) int {
	c := e.RunConfig()
	return int(math.Round(c.Duration / c.Dt))
}
