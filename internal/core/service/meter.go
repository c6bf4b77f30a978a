package service

import (
	"math"
	"time"
)

// EnergyMeter integrates power readings (W) into energy (kWh).
type EnergyMeter struct {
	MaxGap time.Duration

	last     time.Time
	lastWatt float64
	started  bool
}

// Add returns the energy produced since the previous reading. Readings further
// apart than MaxGap restart the integration.
func (m *EnergyMeter) Add(at time.Time, watt float64) float64 {
	watt = math.Max(0, watt)
	defer func() {
		m.last = at
		m.lastWatt = watt
		m.started = true
	}()
	if !m.started {
		return 0
	}
	dt := at.Sub(m.last)
	if dt <= 0 || (m.MaxGap > 0 && dt > m.MaxGap) {
		return 0
	}
	// trapezoid between both readings
	return (m.lastWatt + watt) / 2 * dt.Hours() / 1000
}

// OutageMeter accumulates the hours the grid voltage stays below Threshold.
type OutageMeter struct {
	Threshold float64
	MaxGap    time.Duration

	last    time.Time
	down    bool
	started bool
}

func (m *OutageMeter) Add(at time.Time, voltage float64) float64 {
	hours := 0.0
	if m.started && m.down {
		dt := at.Sub(m.last)
		if dt > 0 && (m.MaxGap <= 0 || dt <= m.MaxGap) {
			hours = dt.Hours()
		}
	}
	m.last = at
	m.down = voltage < m.Threshold
	m.started = true
	return hours
}

func (m *OutageMeter) GridOn() (on bool, known bool) {
	return !m.down, m.started
}
