package quantize

import (
	"log/slog"
	"testing"

	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/stretchr/testify/assert"
)

func single(d int) []model.RhythmValue {
	return []model.RhythmValue{{Duration: d, NoteIndex: 0}}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		in           int
		beat         int
		want         []int
		unsplittable int
	}{
		{name: "printable untouched", in: 72, beat: 48, want: []int{72}},
		{name: "beat and rest", in: 60, beat: 48, want: []int{48, 12}},
		{name: "half and small rest", in: 100, beat: 48, want: []int{96, 4}},
		{name: "seven", in: 7, beat: 48, want: []int{4, 3}},
		{name: "even step comes first", in: 40, beat: 48, want: []int{32, 8}},
		{name: "sixteenth grid", in: 52, beat: 48, want: []int{48, 4}},
		{name: "five", in: 5, beat: 48, want: []int{3, 2}},
		{name: "falls back", in: 13, beat: 48, want: []int{8, 1, 3}, unsplittable: 1},
		{name: "no subdivision at all", in: 5, beat: 1, want: []int{1, 3}, unsplittable: 1},
		{name: "repeated fallback", in: 7, beat: 1, want: []int{1, 1, 3}, unsplittable: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diag.Recorder{}
			values := Split(single(tt.in), 192, tt.beat, rec)

			assert := assert.New(t)
			assert.Equal(tt.want, durationsOf(values))
			for _, v := range values {
				assert.Equal(0, v.NoteIndex)
			}
			assert.Len(rec.OfKind(diag.UnsplittableDuration), tt.unsplittable)
		})
	}
}

func TestSplitUsesPosition(t *testing.T) {
	in := []model.RhythmValue{{Duration: 60, NoteIndex: 0}, {Duration: 132, NoteIndex: 1}}
	values := Split(in, 192, 48, nil)

	assert := assert.New(t)
	assert.Equal([]int{48, 12, 36, 96}, durationsOf(values))
	assert.Equal([]int{0, 0, 1, 1}, []int{values[0].NoteIndex, values[1].NoteIndex, values[2].NoteIndex, values[3].NoteIndex})
}

func TestSplitDropsEmptyValues(t *testing.T) {
	rec := &diag.Recorder{}
	in := []model.RhythmValue{{Duration: 0, NoteIndex: 0}, {Duration: 192, NoteIndex: 1}}
	values := Split(in, 192, 48, rec)

	assert := assert.New(t)
	assert.Equal([]model.RhythmValue{{Duration: 192, NoteIndex: 1}}, values)
	dropped := rec.OfKind(diag.ZeroDurationDropped)
	assert.Len(dropped, 1)
	assert.Equal(0, dropped[0].Chord)
}

func TestSplitBar(t *testing.T) {
	first := model.NewChord(0)
	first.Notes[0] = &model.Note{String: 0, Fret: 3}
	first.Duration = 60
	second := model.NewChord(0.625)
	second.Notes[1] = &model.Note{String: 1, Fret: 2}
	second.Duration = 132
	bar := &model.Bar{
		Start:           0,
		End:             2,
		TimeNominator:   4,
		TimeDenominator: 4,
		Chords:          []*model.Chord{first, second},
	}

	rec := &diag.Recorder{}
	SplitBar(3, bar, rec)

	assert := assert.New(t)
	assert.Len(bar.Chords, 4)
	assert.Equal([]int{48, 12, 36, 96}, []int{
		bar.Chords[0].Duration, bar.Chords[1].Duration,
		bar.Chords[2].Duration, bar.Chords[3].Duration,
	})
	assert.Equal([]bool{false, true, false, true}, []bool{
		bar.Chords[0].Tied, bar.Chords[1].Tied,
		bar.Chords[2].Tied, bar.Chords[3].Tied,
	})
	assert.Equal(0.5, bar.Chords[1].Start)
	assert.Equal(0.625, bar.Chords[2].Start)
	assert.Equal(1.0, bar.Chords[3].Start)
	assert.Equal(first.Notes, bar.Chords[1].Notes)
	assert.Equal(second.Notes, bar.Chords[3].Notes)
	assert.Equal(192, bar.TotalTicks())
	assert.Empty(rec.All())
}

func TestSplitBarReportsBarIndex(t *testing.T) {
	c := model.NewChord(0)
	c.Duration = 0
	rest := model.NewChord(0)
	rest.Duration = 192
	bar := &model.Bar{End: 2, TimeNominator: 4, TimeDenominator: 4, Chords: []*model.Chord{c, rest}}

	rec := &diag.Recorder{}
	SplitBar(5, bar, rec)

	assert := assert.New(t)
	assert.Len(bar.Chords, 1)
	all := rec.All()
	assert.Len(all, 1)
	assert.Equal(5, all[0].Bar)
}

func chordsOf(durations []int) []*model.Chord {
	var res []*model.Chord
	for i, d := range durations {
		c := model.NewChord(float64(i))
		c.Notes[i] = &model.Note{String: i, Fret: i + 1}
		c.Duration = d
		res = append(res, c)
	}
	return res
}

func TestSplitBarFoldsEmptyChords(t *testing.T) {
	tests := []struct {
		name     string
		in       []int
		want     []int
		notesAt  int
		numNotes int
	}{
		{name: "last chord into previous", in: []int{144, 24, 24, 0}, want: []int{144, 24, 24}, notesAt: 2, numNotes: 2},
		{name: "negative into next", in: []int{96, -4, 100}, want: []int{96, 96}, notesAt: 1, numNotes: 2},
		{name: "negative at end", in: []int{96, 104, -8}, want: []int{96, 96}, notesAt: 1, numNotes: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := &model.Bar{End: 192, TimeNominator: 4, TimeDenominator: 4, Chords: chordsOf(tt.in)}
			rec := &diag.Recorder{}
			SplitBar(0, bar, rec)

			assert := assert.New(t)
			var durations, notes []int
			var total int
			for _, c := range bar.Chords {
				durations = append(durations, c.Duration)
				notes = append(notes, c.NoteCount())
				total += c.NoteCount()
			}
			assert.Equal(tt.want, durations)
			assert.Equal(tt.numNotes, notes[tt.notesAt])
			assert.Equal(len(tt.in), total)
			assert.Len(rec.OfKind(diag.ShortNoteMerged), 1)
			assert.Empty(rec.OfKind(diag.ShortNoteDropped))
		})
	}
}

func TestSplitBarReportsLostNotes(t *testing.T) {
	chords := chordsOf([]int{144, 48, 0})
	chords[2].Notes = model.Notes{}
	chords[2].Notes[1] = &model.Note{String: 1, Fret: 9}
	bar := &model.Bar{End: 192, TimeNominator: 4, TimeDenominator: 4, Chords: chords}

	rec := &diag.Recorder{}
	SplitBar(0, bar, rec)

	assert := assert.New(t)
	assert.Len(bar.Chords, 2)
	assert.Equal(2, bar.Chords[1].Notes[1].Fret)
	dropped := rec.OfKind(diag.ShortNoteDropped)
	assert.Len(dropped, 1)
	assert.Equal(1, dropped[0].Values["notes"])
	assert.Equal(slog.LevelWarn, diag.Level(diag.ShortNoteDropped))
}
