package midi

import (
	"bytes"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoSuchTrack = errors.New("midi: no such track")

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

// Onsets returns the distinct note-on ticks of one track in ascending order.
func Onsets(s *smf.SMF, track int) ([]int64, error) {
	if track < 0 || track >= len(s.Tracks) {
		return nil, errors.Wrapf(ErrNoSuchTrack, "track %v of %v", track, len(s.Tracks))
	}
	seen := make(map[int64]bool)
	var res []int64
	var absTicks int64
	for _, event := range s.Tracks[track] {
		absTicks += int64(event.Delta)
		var channel, key, velocity uint8
		if event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 && !seen[absTicks] {
			seen[absTicks] = true
			res = append(res, absTicks)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res, nil
}

// MeasureDurations cuts one track into bars of beatsPerBar quarter notes and
// returns, per bar, the tick distances between successive onsets. A bar that
// does not start on an onset begins with a rest, a bar without onsets is a
// single rest.
func MeasureDurations(s *smf.SMF, track, beatsPerBar int) ([][]float64, error) {
	if beatsPerBar < 1 {
		return nil, errors.Errorf("midi: %v beats per bar", beatsPerBar)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New("midi: only metric time formats are supported")
	}
	onsets, err := Onsets(s, track)
	if err != nil {
		return nil, err
	}
	if len(onsets) == 0 {
		return nil, nil
	}

	barLen := int64(beatsPerBar) * int64(ticks.Resolution())
	numBars := onsets[len(onsets)-1]/barLen + 1
	res := make([][]float64, numBars)
	next := 0
	for b := int64(0); b < numBars; b++ {
		barStart, barEnd := b*barLen, (b+1)*barLen
		pos := barStart
		var durations []float64
		for ; next < len(onsets) && onsets[next] < barEnd; next++ {
			if onsets[next] > pos {
				durations = append(durations, float64(onsets[next]-pos))
			}
			pos = onsets[next]
		}
		durations = append(durations, float64(barEnd-pos))
		res[b] = durations
	}
	return res, nil
}
