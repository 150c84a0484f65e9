// Package arrangement turns a note-highway arrangement into bars of chords
// and runs the quantization pipeline over them.
package arrangement

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/jsphweid/tabrhythm/chord"
	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/util"
	"github.com/pkg/errors"
)

func ReadArrangementFile(path string) (*model.Arrangement, error) {
	var a model.Arrangement
	if err := util.ReadJSONFile(path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func ReadArrangement(r io.Reader) (*model.Arrangement, error) {
	var a model.Arrangement
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Wrap(err, "decoding arrangement")
	}
	return &a, nil
}

// BuildBars groups the beat markers into bars. The last bar ends at
// songLength, or one bar's worth of averageTempo after its start when the
// song length is unusable.
func BuildBars(ebeats []model.Ebeat, songLength, averageTempo float64, sink diag.Sink) []*model.Bar {
	sink = diag.OrDiscard(sink)
	var bars []*model.Bar
	var current *model.Bar
	for i, beat := range ebeats {
		if beat.Measure < 0 {
			if current == nil {
				sink.Report(diag.New(diag.OrphanSubBeat, diag.NoIndex, diag.NoIndex,
					"sub-beat at %v before the first bar, ignoring", beat.Time).With("ebeat", i))
				continue
			}
			current.TimeNominator++
			continue
		}
		if current != nil {
			current.End = beat.Time
			current.GuessTimeAndTempo(averageTempo)
		}
		current = &model.Bar{Start: beat.Time, TimeNominator: 1}
		bars = append(bars, current)
	}

	if current != nil {
		current.End = songLength
		if current.End <= current.Start {
			tempo := averageTempo
			if tempo <= 0 {
				tempo = constants.DefaultTempo
			}
			current.End = current.Start + float64(current.TimeNominator)*60/tempo
		}
		current.GuessTimeAndTempo(averageTempo)
	}
	return bars
}

func levelsByDifficulty(levels []model.Level) map[int]*model.Level {
	res := make(map[int]*model.Level, len(levels))
	for i := range levels {
		if _, ok := res[levels[i].Difficulty]; !ok {
			res[levels[i].Difficulty] = &levels[i]
		}
	}
	return res
}

// pickLevel returns the level with the highest difficulty not above want,
// or the easiest level when all of them are harder.
func pickLevel(levels map[int]*model.Level, want int) *model.Level {
	var best, easiest *model.Level
	for d, level := range levels {
		if d <= want && (best == nil || d > best.Difficulty) {
			best = level
		}
		if easiest == nil || d < easiest.Difficulty {
			easiest = level
		}
	}
	if best != nil {
		return best
	}
	return easiest
}

// CollectNotes fills bars with the chords of the requested difficulty and
// returns the highest difficulty actually used. Each phrase caps the
// difficulty of the bars it covers.
func CollectNotes(a *model.Arrangement, bars []*model.Bar, templates *chord.Templates, difficulty int, sink diag.Sink) int {
	sink = diag.OrDiscard(sink)
	levels := levelsByDifficulty(a.Levels)
	if len(levels) == 0 {
		for b, bar := range bars {
			fillBar(b, bar, nil, templates, sink)
		}
		return 0
	}

	iterations := make([]model.PhraseIteration, len(a.PhraseIterations))
	copy(iterations, a.PhraseIterations)
	sort.SliceStable(iterations, func(i, j int) bool { return iterations[i].Time < iterations[j].Time })

	levelAt := func(it int) *model.Level {
		want := difficulty
		if it >= 0 && it < len(iterations) {
			if id := iterations[it].PhraseID; id >= 0 && id < len(a.Phrases) {
				want = util.Min(want, a.Phrases[id].MaxDifficulty)
			}
		}
		return pickLevel(levels, want)
	}

	used := -1
	it := 0
	if len(iterations) == 0 {
		it = -1
	}
	for b, bar := range bars {
		for it >= 0 && it+1 < len(iterations) && iterations[it+1].Time <= bar.Start {
			it++
		}
		level := levelAt(it)
		used = util.Max(used, level.Difficulty)
		fillBar(b, bar, level, templates, sink)
	}
	return util.Max(used, 0)
}

func fillBar(b int, bar *model.Bar, level *model.Level, templates *chord.Templates, sink diag.Sink) {
	var chords []*model.Chord
	if level != nil {
		for _, n := range level.Notes {
			if bar.ContainsTime(n.Time) {
				chords = append(chords, createNoteChord(b, n, sink))
			}
		}
		for _, c := range level.Chords {
			if bar.ContainsTime(c.Time) {
				chords = append(chords, createChord(b, c, templates, sink))
			}
		}
	}
	sort.SliceStable(chords, func(i, j int) bool { return chords[i].Start < chords[j].Start })

	if len(chords) == 0 || chords[0].Start > bar.Start {
		chords = append([]*model.Chord{model.NewChord(bar.Start)}, chords...)
		sink.Report(diag.New(diag.SilenceInserted, b, 0,
			"inserting silence at start of bar %v", b))
	}
	bar.Chords = chords
}

func placeNote(b int, c *model.Chord, n model.NoteEvent, sink diag.Sink) {
	if n.String < 0 || n.String >= constants.NumStrings {
		sink.Report(diag.New(diag.StringOutOfRange, b, diag.NoIndex,
			"note at %v on string %v dropped", n.Time, n.String).With("string", n.String))
		return
	}
	c.Notes[n.String] = &model.Note{String: n.String, Fret: n.Fret}
}

func createNoteChord(b int, n model.NoteEvent, sink diag.Sink) *model.Chord {
	c := model.NewChord(n.Time)
	placeNote(b, c, n, sink)
	return c
}

// createChord prefers the notes listed on the event and falls back to the
// template of its chord id.
func createChord(b int, event model.ChordEvent, templates *chord.Templates, sink diag.Sink) *model.Chord {
	if len(event.ChordNotes) > 0 {
		c := model.NewChord(event.Time)
		c.ChordID = event.ChordID
		for _, n := range event.ChordNotes {
			n.Time = event.Time
			placeNote(b, c, n, sink)
		}
		return c
	}
	c, ok := templates.Chord(event.ChordID, event.Time)
	if !ok {
		sink.Report(diag.New(diag.MissingChordTemplate, b, diag.NoIndex,
			"no template for chord id %v at %v", event.ChordID, event.Time).With("chordId", event.ChordID))
	}
	return c
}
