package model

import (
	"math"

	"github.com/jsphweid/tabrhythm/constants"
)

type Bar struct {
	Start           float64  `json:"start"`
	End             float64  `json:"end"`
	TimeNominator   int      `json:"timeNominator"`
	TimeDenominator int      `json:"timeDenominator"`
	Tempo           float64  `json:"tempo"`
	Chords          []*Chord `json:"chords"`
}

func (b *Bar) ExpectedTicks() int {
	if b.TimeDenominator == 0 {
		return 0
	}
	return constants.TicksPerWholeNote * b.TimeNominator / b.TimeDenominator
}

func (b *Bar) BeatTicks() int {
	if b.TimeDenominator == 0 {
		return 0
	}
	return constants.TicksPerWholeNote / b.TimeDenominator
}

func (b *Bar) ContainsTime(t float64) bool {
	return t >= b.Start && t < b.End
}

// Ticks converts a length in seconds to ticks, scaled so that the whole bar
// spans ExpectedTicks.
func (b *Bar) Ticks(length float64) int {
	barLength := b.End - b.Start
	if barLength <= 0 {
		return 0
	}
	return int(math.Round(length * float64(b.ExpectedTicks()) / barLength))
}

// GuessTimeAndTempo assumes quarter note beats, one per counted beat marker.
func (b *Bar) GuessTimeAndTempo(averageTempo float64) {
	b.TimeDenominator = 4
	if b.TimeNominator < 1 {
		b.TimeNominator = 1
	}
	length := b.End - b.Start
	if length <= 0 {
		b.Tempo = averageTempo
		return
	}
	b.Tempo = float64(b.TimeNominator) * 60 / length
}

func (b *Bar) TotalTicks() int {
	var total int
	for _, c := range b.Chords {
		total += c.Duration
	}
	return total
}
