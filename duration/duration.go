// Package duration turns absolute chord start times into tick durations.
package duration

import (
	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
)

// Assign populates chord durations bar by bar, left to right. Chords shorter
// than constants.MinDuration are merged into the following chord, which for
// the last chord of a bar is the first chord of the next bar.
func Assign(bars []*model.Bar, sink diag.Sink) {
	sink = diag.OrDiscard(sink)
	for b, bar := range bars {
		var next *model.Bar
		if b < len(bars)-1 {
			next = bars[b+1]
		}
		AssignBar(b, bar, next, sink)
	}
}

// AssignBar works on a single bar. next may be nil for the last bar.
func AssignBar(b int, bar *model.Bar, next *model.Bar, sink diag.Sink) {
	sink = diag.OrDiscard(sink)
	kept := make([]*model.Chord, 0, len(bar.Chords))
	for i, c := range bar.Chords {
		isLast := i == len(bar.Chords)-1
		end := bar.End
		if !isLast {
			end = bar.Chords[i+1].Start
		}
		c.Duration = bar.Ticks(end - c.Start)
		if c.Duration >= constants.MinDuration {
			kept = append(kept, c)
			continue
		}

		short := c.Duration
		c.Duration = 0
		switch {
		case !isLast:
			// the absorbing chord takes over the earlier onset and thereby
			// the short chord's time
			target := bar.Chords[i+1]
			target.Start = c.Start
			target.Absorb(c)
			sink.Report(diag.New(diag.ShortNoteMerged, b, i,
				"note value too short, merging with next note in bar %v", b).With("duration", short))
		case next != nil && len(next.Chords) > 0:
			next.Chords[0].Absorb(c)
			sink.Report(diag.New(diag.ShortNoteMergedNextBar, b, i,
				"note value too short, merging with first note of next bar in bar %v", b).With("duration", short))
		default:
			sink.Report(diag.New(diag.ShortNoteDropped, b, i,
				"note value too short at end of song, dropping %v notes", c.NoteCount()).
				With("duration", short).With("notes", c.NoteCount()))
		}
	}
	bar.Chords = kept
}
