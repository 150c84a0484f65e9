package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/tabrhythm/model"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func chordWith(duration, str, fret int) *model.Chord {
	c := model.NewChord(0)
	c.Duration = duration
	if str >= 0 {
		c.Notes[str] = &model.Note{String: str, Fret: fret}
	}
	return c
}

func testTrack() *model.Track {
	held := chordWith(48, 5, 0)
	tied := *held
	tied.Tied = true
	return &model.Track{
		Name:         "test",
		AverageTempo: 90,
		Bars: []*model.Bar{
			{TimeNominator: 4, TimeDenominator: 4, Chords: []*model.Chord{chordWith(96, 0, 3), held, &tied}},
			{TimeNominator: 4, TimeDenominator: 4, Chords: []*model.Chord{chordWith(96, -1, 0), chordWith(96, 1, 2)}},
		},
	}
}

type played struct {
	tick int64
	key  uint8
	on   bool
}

func notesOf(s *smf.SMF, track int) []played {
	var res []played
	var absTicks int64
	for _, event := range s.Tracks[track] {
		absTicks += int64(event.Delta)
		msg := gomidi.Message(event.Message)
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			res = append(res, played{absTicks, key, true})
		case msg.GetNoteEnd(&channel, &key):
			res = append(res, played{absTicks, key, false})
		}
	}
	return res
}

func writeAndRead(t *testing.T, track *model.Track) *smf.SMF {
	var buf bytes.Buffer
	assert.NoError(t, WriteTrack(&buf, track, 0))
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	return s
}

func TestWriteTrack(t *testing.T) {
	s := writeAndRead(t, testTrack())

	assert := assert.New(t)
	assert.Equal(smf.MetricTicks(48), s.TimeFormat)
	assert.Len(s.Tracks, 2)
	assert.Equal([]played{
		{0, 43, true},
		{96, 43, false},
		{96, 64, true},
		{192, 64, false},
		{288, 47, true},
		{384, 47, false},
	}, notesOf(s, 1))
}

func TestMeasureDurations(t *testing.T) {
	s := writeAndRead(t, testTrack())
	measures, err := MeasureDurations(s, 1, 4)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([][]float64{{96, 96}, {96, 96}}, measures)
}

func TestMeasureDurationsErrors(t *testing.T) {
	s := writeAndRead(t, testTrack())

	assert := assert.New(t)
	_, err := MeasureDurations(s, 7, 4)
	assert.ErrorIs(err, ErrNoSuchTrack)
	_, err = MeasureDurations(s, 1, 0)
	assert.Error(err)

	measures, err := MeasureDurations(s, 0, 4)
	assert.NoError(err)
	assert.Empty(measures)
}

func TestReadMidiFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mid")
	var buf bytes.Buffer
	assert.NoError(t, WriteTrack(&buf, testTrack(), 120))
	assert.NoError(t, os.WriteFile(path, buf.Bytes(), 0666))

	s, err := ReadMidiFile(path)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(notesOf(s, 1), 6)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(err)
}
