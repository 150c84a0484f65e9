// Package rhythm cleans up tick durations computed from absolute times.
package rhythm

import (
	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/util"
)

func IsSane(duration int) bool {
	return util.Contains(constants.SaneDurations, duration)
}

func CleanAll(bars []*model.Bar, sink diag.Sink) {
	for b, bar := range bars {
		Clean(b, bar, sink)
	}
}

// Clean nudges durations that are a few ticks off a sane value by shifting
// the difference to a neighbour, and makes the bar add up to its expected
// length by correcting the last chord.
func Clean(b int, bar *model.Bar, sink diag.Sink) {
	sink = diag.OrDiscard(sink)
	expected := bar.ExpectedTicks()
	var total int

	for i, c := range bar.Chords {
		total += c.Duration

		if i == len(bar.Chords)-1 && total != expected {
			before := c.Duration
			c.Duration -= total - expected
			sink.Report(diag.New(diag.BarTotalCorrected, b, i,
				"%v at end of bar does not match expected duration %v", total, expected).
				With("from", before).With("to", c.Duration))
		}

		if IsSane(c.Duration) {
			continue
		}

		// the previous chord may have passed as sane but could just as well
		// become another sane value
		if i > 0 {
			prev := bar.Chords[i-1]
			for _, shift := range constants.Shifts {
				if IsSane(c.Duration+shift) && IsSane(prev.Duration-shift) {
					c.Duration += shift
					prev.Duration -= shift
					sink.Report(diag.New(diag.ShiftedToPrevious, b, i,
						"shifting sloppy rhythm to previous note").With("shift", shift))
					break
				}
			}
		}

		if i < len(bar.Chords)-1 && !IsSane(c.Duration) {
			next := bar.Chords[i+1]
			for _, shift := range constants.Shifts {
				if IsSane(c.Duration + shift) {
					c.Duration += shift
					next.Duration -= shift
					total += shift
					sink.Report(diag.New(diag.ShiftedToNext, b, i,
						"shifting sloppy rhythm to next note").With("shift", shift))
					break
				}
			}
		}

		if !IsSane(c.Duration) {
			kind := diag.InsaneDuration
			if util.Contains(constants.PrintableDurations, c.Duration) {
				kind = diag.InsanePrintable
			}
			sink.Report(diag.New(kind, b, i,
				"could not find a sane duration near %v", c.Duration).With("duration", c.Duration))
		}
	}
}
