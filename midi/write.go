package midi

import (
	"io"
	"sort"

	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Resolution makes one MIDI tick equal one chord duration tick.
const Resolution = constants.TicksPerWholeNote / 4

const velocity = 100

type noteEvent struct {
	tick uint64
	key  uint8
	on   bool
}

// WriteTrack writes a format 1 SMF with a conductor track (meter and tempo)
// and one note track. Tied chords extend the notes before them.
func WriteTrack(w io.Writer, track *model.Track, tempo float64) error {
	if tempo <= 0 {
		tempo = track.AverageTempo
	}
	if tempo <= 0 {
		tempo = constants.DefaultTempo
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(tempo))
	var absTicks, lastMeter uint64
	nom, den := 0, 0
	for _, bar := range track.Bars {
		if bar.TimeNominator != nom || bar.TimeDenominator != den {
			nom, den = bar.TimeNominator, bar.TimeDenominator
			conductor.Add(uint32(absTicks-lastMeter), smf.MetaMeter(uint8(nom), uint8(den)))
			lastMeter = absTicks
		}
		absTicks += uint64(bar.TotalTicks())
	}
	conductor.Close(0)

	var notes smf.Track
	notes.Add(0, smf.MetaTrackSequenceName(track.Name))
	var last uint64
	for _, evt := range noteEvents(track) {
		msg := gomidi.NoteOff(0, evt.key)
		if evt.on {
			msg = gomidi.NoteOn(0, evt.key, velocity)
		}
		notes.Add(uint32(evt.tick-last), msg)
		last = evt.tick
	}
	notes.Close(0)

	if err := s.Add(conductor); err != nil {
		return errors.Wrap(err, "adding conductor track")
	}
	if err := s.Add(notes); err != nil {
		return errors.Wrap(err, "adding note track")
	}
	_, err := s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}

func noteEvents(track *model.Track) []noteEvent {
	var chords []*model.Chord
	for _, bar := range track.Bars {
		chords = append(chords, bar.Chords...)
	}

	var res []noteEvent
	var pos uint64
	for i, c := range chords {
		start := pos
		pos += uint64(c.Duration)
		if c.Tied {
			continue
		}
		end := pos
		for j := i + 1; j < len(chords) && chords[j].Tied; j++ {
			end += uint64(chords[j].Duration)
		}
		for s, n := range c.Notes {
			if n == nil {
				continue
			}
			key := constants.OpenPitches[s] + uint8(n.Fret)
			res = append(res, noteEvent{tick: start, key: key, on: true}, noteEvent{tick: end, key: key})
		}
	}

	// releases go before attacks on the same tick
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].tick != res[j].tick {
			return res[i].tick < res[j].tick
		}
		return !res[i].on && res[j].on
	})
	return res
}
