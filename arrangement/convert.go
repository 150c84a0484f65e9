package arrangement

import (
	"github.com/jsphweid/tabrhythm/chord"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/duration"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/quantize"
	"github.com/jsphweid/tabrhythm/rhythm"
)

// Convert builds the notated track for one difficulty.
func Convert(a *model.Arrangement, difficulty int, sink diag.Sink) *model.Track {
	sink = diag.OrDiscard(sink)
	templates := chord.FromArrangement(a.ChordTemplates, sink)
	bars := BuildBars(a.Ebeats, a.SongLength, a.AverageTempo, sink)
	used := CollectNotes(a, bars, templates, difficulty, sink)
	Quantize(bars, sink)

	name := a.Title
	if a.Arrangement != "" {
		name += " - " + a.Arrangement
	}
	return &model.Track{
		Name:            name,
		AverageTempo:    a.AverageTempo,
		DifficultyLevel: used,
		ChordTemplates:  templates.Map(),
		Bars:            bars,
	}
}

// Quantize turns chord start times into printable tick durations.
func Quantize(bars []*model.Bar, sink diag.Sink) {
	duration.Assign(bars, sink)
	for b, bar := range bars {
		rhythm.Clean(b, bar, sink)
		quantize.SplitBar(b, bar, sink)
	}
}
