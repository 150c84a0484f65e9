// Package quantize maps free note durations onto a measure grid built from
// nested beat and triplet subdivisions.
package quantize

import (
	"math"

	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/pkg/errors"
)

// Precision is the largest deviation (in ticks) accepted before a finer beat
// is tried.
const Precision = 1.0

var (
	ErrEmptyInput       = errors.New("quantize: no durations given")
	ErrZeroSum          = errors.New("quantize: durations sum to zero")
	ErrNegativeDuration = errors.New("quantize: negative duration")
	ErrBadMeasure       = errors.New("quantize: measure duration must be positive")
	ErrBadBeat          = errors.New("quantize: beat duration must be at least 1")
)

// Quantize matches durations to the grid and splits the result into
// printable values.
func Quantize(durations []float64, measureDuration float64, beatDuration int, sink diag.Sink) ([]model.RhythmValue, error) {
	values, err := Match(durations, measureDuration, beatDuration)
	if err != nil {
		return nil, err
	}
	return Split(values, int(math.Round(measureDuration)), beatDuration, sink), nil
}

// Match rescales durations to fill measureDuration, then snaps note ends onto
// the grid. Notes that collapse to zero length are kept with Duration 0.
func Match(durations []float64, measureDuration float64, beatDuration int) ([]model.RhythmValue, error) {
	if len(durations) == 0 {
		return nil, ErrEmptyInput
	}
	if measureDuration <= 0 || math.IsNaN(measureDuration) || math.IsInf(measureDuration, 0) {
		return nil, ErrBadMeasure
	}
	if beatDuration < 1 {
		return nil, ErrBadBeat
	}
	var sum float64
	for _, d := range durations {
		if d < 0 {
			return nil, ErrNegativeDuration
		}
		sum += d
	}
	if sum == 0 {
		return nil, ErrZeroSum
	}

	scaling := measureDuration / sum
	m := &matcher{ends: make([]float64, len(durations))}
	var total float64
	for i, d := range durations {
		total += d * scaling
		m.ends[i] = total
	}
	// the last end is the measure end, rounding must not move it
	m.ends[len(m.ends)-1] = measureDuration

	m.match(0, len(m.ends), 0, measureDuration, beatDuration)

	res := make([]model.RhythmValue, 0, len(m.ends))
	var offset float64
	for i, end := range m.ends {
		res = append(res, model.RhythmValue{
			Duration:  int(math.Round(end - offset)),
			NoteIndex: i,
		})
		offset = end
	}
	return res, nil
}

// matcher owns the cumulative note ends for one measure. Every recursive call
// writes only inside its own [start, end) range.
type matcher struct {
	ends []float64
}

// match quantizes the ends in [start, end), which lie inside
// [offset, offset+length). The last end of the range is fixed.
func (m *matcher) match(start, end int, offset, length float64, beatDuration int) {
	if end-start <= 1 {
		return
	}

	if length <= 3 {
		// can't divide this any further, all but the last note collapse
		for i := start; i < end-1; i++ {
			m.ends[i] = offset
		}
		return
	}

	tripletBeat := beatDuration * 2 / 3

	// find the single note end closest to a multiple of the beat or of the
	// triplet beat. Even if each note is off, the sum at some point usually
	// marks a clean beat.
	matchPos := start
	matchEnd := 0.0
	matchDiff := length + 1
	for i := start; i < end-1; i++ {
		if target, diff := nearest(m.ends[i], beatDuration); diff < matchDiff {
			matchPos, matchEnd, matchDiff = i, target, diff
		}
		if tripletBeat == 0 {
			continue
		}
		if target, diff := nearest(m.ends[i], tripletBeat); diff < matchDiff {
			matchPos, matchEnd, matchDiff = i, target, diff
		}
	}

	if matchDiff >= Precision && beatDuration > 3 {
		m.match(start, end, offset, length, beatDuration/2)
		return
	}

	matchEnd = math.Max(offset, math.Min(matchEnd, offset+length))
	m.snap(start, end, offset, length, matchPos, matchEnd)

	m.match(start, matchPos+1, offset, matchEnd-offset, beatDuration)
	m.match(matchPos+1, end, matchEnd, offset+length-matchEnd, beatDuration)
}

// snap moves ends[pos] to target and stretches the ends on either side so
// they keep their relative positions.
func (m *matcher) snap(start, end int, offset, length float64, pos int, target float64) {
	original := m.ends[pos]
	m.ends[pos] = target

	leftScaling := ratio(target-offset, original-offset)
	for i := start; i < pos; i++ {
		m.ends[i] = offset + (m.ends[i]-offset)*leftScaling
	}
	rightScaling := ratio(offset+length-target, offset+length-original)
	for i := pos + 1; i < end-1; i++ {
		m.ends[i] = target + (m.ends[i]-original)*rightScaling
	}
}

func nearest(value float64, beat int) (float64, float64) {
	b := float64(beat)
	target := math.Round(value/b) * b
	return target, math.Abs(target - value)
}

func ratio(corrected, original float64) float64 {
	if original <= 0 {
		return 0
	}
	return corrected / original
}
