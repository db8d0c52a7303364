package store

import (
	"math"
	"strconv"

	"github.com/san-kum/aerodyn/internal/sim"
)

// Record is the flattened form of a frame written to disk.
type Record struct {
	Time     float64    `json:"t"`
	Pos      [3]float64 `json:"pos"`
	Vel      [3]float64 `json:"vel"`
	Airspeed float64    `json:"airspeed"`
	AGL      float64    `json:"agl"`
	Pitch    float64    `json:"pitch_deg"`
	Bank     float64    `json:"bank_deg"`
	Heading  float64    `json:"heading_deg"`
	Load     float64    `json:"load_factor"`
	Fuel     float64    `json:"fuel"`
	Crashed  bool       `json:"crashed"`
}

var columns = []string{
	"time", "x", "y", "z", "vx", "vy", "vz",
	"airspeed", "agl", "pitch_deg", "bank_deg", "heading_deg",
	"load_factor", "fuel", "crashed",
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

func NewRecord(f *sim.Frame) Record {
	return Record{
		Time:     f.Time,
		Pos:      f.State.Pos,
		Vel:      f.State.V,
		Airspeed: f.Airspeed,
		AGL:      f.AGL,
		Pitch:    deg(f.Pitch()),
		Bank:     deg(f.Bank()),
		Heading:  deg(f.Heading()),
		Load:     f.LoadFactor(),
		Fuel:     f.Fuel,
		Crashed:  f.Crashed,
	}
}

func (r Record) row() []string {
	vals := []float64{
		r.Time, r.Pos[0], r.Pos[1], r.Pos[2], r.Vel[0], r.Vel[1], r.Vel[2],
		r.Airspeed, r.AGL, r.Pitch, r.Bank, r.Heading, r.Load, r.Fuel,
	}
	row := make([]string, 0, len(columns))
	for _, v := range vals {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return append(row, strconv.FormatBool(r.Crashed))
}
