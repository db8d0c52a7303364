package physics

import "math"

const (
	// Gravity is the standard gravitational acceleration in m/s^2.
	Gravity = 9.81

	SeaLevelPressure    = 101325.0 // Pa
	SeaLevelTemperature = 288.15   // K
	SeaLevelDensity     = 1.225    // kg/m^3

	gasConstant    = 287.05 // J/(kg K), dry air
	heatRatio      = 1.4
	lapseRate      = 0.0065 // K/m
	tropopause     = 11000.0
	pressureFactor = Gravity / (gasConstant * lapseRate)
)

// Air is the thermodynamic state of the surrounding air.
type Air struct {
	Pressure    float64 // Pa
	Temperature float64 // K
	Density     float64 // kg/m^3
}

// StandardAtmosphere returns ISA conditions at altitude (m). Above the
// tropopause the temperature is held constant.
func StandardAtmosphere(altitude float64) Air {
	if altitude < tropopause {
		t := SeaLevelTemperature - lapseRate*altitude
		p := SeaLevelPressure * math.Pow(t/SeaLevelTemperature, pressureFactor)
		return NewAir(p, t)
	}
	top := StandardAtmosphere(tropopause - 1e-9)
	p := top.Pressure * math.Exp(-Gravity*(altitude-tropopause)/(gasConstant*top.Temperature))
	return NewAir(p, top.Temperature)
}

// NewAir derives density from pressure and temperature.
func NewAir(pressure, temperature float64) Air {
	return Air{
		Pressure:    pressure,
		Temperature: temperature,
		Density:     pressure / (gasConstant * temperature),
	}
}

func (a Air) SpeedOfSound() float64 {
	return math.Sqrt(heatRatio * gasConstant * a.Temperature)
}

func (a Air) Mach(speed float64) float64 {
	c := a.SpeedOfSound()
	if c == 0 {
		return 0
	}
	return speed / c
}

// standardDensity is the sea level density as NewAir computes it, so the
// standard atmosphere at zero altitude has a density ratio of exactly one.
var standardDensity = NewAir(SeaLevelPressure, SeaLevelTemperature).Density

// DensityRatio is sigma, the density relative to sea level.
func (a Air) DensityRatio() float64 {
	return a.Density / standardDensity
}
