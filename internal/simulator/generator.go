// Package simulator produces synthetic PMCU frames for exercising a collector
// without hardware.
package simulator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"pmcu-collector/internal/telemetry"
)

// Generator builds frames whose humidity and temperature drift slowly.
// Even frames carry a GPS fix; odd frames carry a GGA without fix so the
// collector falls back to the cellular position.
type Generator struct {
	rng  *rand.Rand
	n    int
	rh   int
	temp int
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		rh:   450,
		temp: 210,
	}
}

// Next returns the next frame, stamped with t.
func (g *Generator) Next(t time.Time) telemetry.Frame {
	g.rh = clamp(g.rh+g.rng.IntN(21)-10, 100, 950)
	g.temp = clamp(g.temp+g.rng.IntN(7)-3, 0, 450)

	utc := t.UTC()
	hhmmss := utc.Format("150405")

	f := telemetry.Frame{
		Humidity:    uint16(g.rh),
		Temperature: uint16(g.temp),
		GSMLocation: fmt.Sprintf("+CIPGSMLOC: 0,%.6f,%.6f,%s,%s",
			11.5166+g.jitter(), 48.1173+g.jitter(), utc.Format("2006/01/02"), utc.Format("15:04:05")),
		PM: g.particulates(),
	}
	if g.n%2 == 0 {
		f.GGA = fmt.Sprintf("%s,4807.%03d,N,01131.%03d,E,1,%02d,0.9,545.4,M,46.9,M,,",
			hhmmss, g.rng.IntN(1000), g.rng.IntN(1000), 4+g.rng.IntN(8))
	} else {
		f.GGA = hhmmss + ",,,,,0,00,99.9,,M,,M,,"
	}
	g.n++
	return f
}

func (g *Generator) jitter() float64 {
	return (g.rng.Float64() - 0.5) / 100
}

func (g *Generator) particulates() telemetry.ParticulateMatter {
	pm1 := 2 + g.rng.Float32()*8
	return telemetry.ParticulateMatter{
		MassPM1_0:   pm1,
		MassPM2_5:   pm1 * 1.2,
		MassPM4_0:   pm1 * 1.35,
		MassPM10:    pm1 * 1.4,
		NumberPM0_5: pm1 * 6,
		NumberPM1_0: pm1 * 7,
		NumberPM2_5: pm1 * 7.2,
		NumberPM4_0: pm1 * 7.25,
		NumberPM10:  pm1 * 7.3,
		TypicalSize: 0.4 + g.rng.Float32()*0.3,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
