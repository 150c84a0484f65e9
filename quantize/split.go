package quantize

import (
	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/util"
)

func IsPrintable(duration int) bool {
	return util.Contains(constants.PrintableDurations, duration)
}

// Split expresses every value that has no single notated form as a tied
// sequence of printable values sharing its NoteIndex. Values that are not
// positive are dropped. beatLength is the first subdivision tried.
func Split(values []model.RhythmValue, measureDuration int, beatLength int, sink diag.Sink) []model.RhythmValue {
	sink = diag.OrDiscard(sink)
	if measureDuration > 0 && beatLength > measureDuration {
		beatLength = measureDuration
	}

	res := make([]model.RhythmValue, 0, len(values))
	var pos int
	for _, v := range values {
		cur := v
		for {
			if cur.Duration <= 0 {
				sink.Report(diag.New(diag.ZeroDurationDropped, diag.NoIndex, cur.NoteIndex,
					"dropping duration %v", cur.Duration).With("duration", cur.Duration))
				break
			}
			if IsPrintable(cur.Duration) {
				res = append(res, cur)
				pos += cur.Duration
				break
			}

			head, rest, ok := splitAt(pos, cur.Duration, beatLength)
			if !ok {
				sink.Report(diag.New(diag.UnsplittableDuration, diag.NoIndex, cur.NoteIndex,
					"failed to split note duration %v properly, cutting 1 off", cur.Duration).
					With("duration", cur.Duration))
				head, rest = 1, cur.Duration-2
			}
			res = append(res, model.RhythmValue{Duration: head, NoteIndex: cur.NoteIndex})
			pos += head
			if rest <= 0 {
				break
			}
			cur = model.RhythmValue{Duration: rest, NoteIndex: cur.NoteIndex}
		}
	}
	return res
}

// splitAt looks for a printable head so that the note, starting at pos, is
// cut on a multiple of some subdivision. Subdivisions go down from beatLength
// alternating between even (2/3) and triplet (3/4) steps.
func splitAt(pos, duration, beatLength int) (int, int, bool) {
	noteEnd := pos + duration
	n, d := 2, 3
	for size := beatLength; size >= 2; {
		for mult := noteEnd / size; mult >= 1; mult-- {
			remaining := noteEnd - mult*size
			if remaining >= duration {
				break
			}
			if remaining > 0 && remaining < constants.MinDuration {
				break
			}
			if head := duration - remaining; IsPrintable(head) {
				return head, remaining, true
			}
		}
		size = size * n / d
		if n == 2 {
			n, d = 3, 4
		} else {
			n, d = 2, 3
		}
	}
	return 0, 0, false
}

// SplitBar splits the chord durations of an already cleaned bar. A split
// chord keeps its onset on the first part, continuation parts are tied copies.
// Chords left without a positive duration are folded into a neighbour first.
func SplitBar(b int, bar *model.Bar, sink diag.Sink) {
	sink = diag.ForBar(diag.OrDiscard(sink), b)
	bar.Chords = foldEmpty(bar.Chords, sink)
	values := make([]model.RhythmValue, len(bar.Chords))
	for i, c := range bar.Chords {
		values[i] = model.RhythmValue{Duration: c.Duration, NoteIndex: i}
	}
	values = Split(values, bar.ExpectedTicks(), bar.BeatTicks(), sink)

	chords := make([]*model.Chord, 0, len(values))
	var pos int
	last := -1
	for _, v := range values {
		source := bar.Chords[v.NoteIndex]
		c := source
		if v.NoteIndex == last {
			tied := *source
			tied.Tied = true
			tied.Start = bar.Start + float64(pos)*(bar.End-bar.Start)/float64(bar.ExpectedTicks())
			c = &tied
		}
		c.Duration = v.Duration
		chords = append(chords, c)
		pos += v.Duration
		last = v.NoteIndex
	}
	bar.Chords = chords
}

// foldEmpty merges every chord with a duration <= 0 into the next chord, or
// into the previous one at the end of the bar. The absorbing chord takes over
// the (possibly negative) duration so the bar total is unchanged.
func foldEmpty(chords []*model.Chord, sink diag.Sink) []*model.Chord {
	kept := make([]*model.Chord, 0, len(chords))
	var carry *model.Chord
	carryIndex := diag.NoIndex
	for i, c := range chords {
		if carry != nil {
			c.Start = carry.Start
			fold(c, carry, carryIndex, sink)
			carry = nil
		}
		if c.Duration > 0 {
			kept = append(kept, c)
			continue
		}
		if i < len(chords)-1 {
			carry, carryIndex = c, i
			continue
		}

		for len(kept) > 0 {
			prev := kept[len(kept)-1]
			fold(prev, c, i, sink)
			if prev.Duration > 0 {
				c = nil
				break
			}
			kept = kept[:len(kept)-1]
			c = prev
		}
		if c != nil && !c.IsSilence() {
			sink.Report(diag.New(diag.ShortNoteDropped, diag.NoIndex, i,
				"no chord left to take %v notes, dropping them", c.NoteCount()).With("notes", c.NoteCount()))
		}
	}
	return kept
}

func fold(target, empty *model.Chord, index int, sink diag.Sink) {
	target.Duration += empty.Duration
	if empty.IsSilence() {
		sink.Report(diag.New(diag.ZeroDurationDropped, diag.NoIndex, index,
			"dropping empty rest of duration %v", empty.Duration).With("duration", empty.Duration))
		return
	}
	before := target.NoteCount()
	target.Absorb(empty)
	if lost := empty.NoteCount() - (target.NoteCount() - before); lost > 0 {
		sink.Report(diag.New(diag.ShortNoteDropped, diag.NoIndex, index,
			"strings already taken, dropping %v notes", lost).With("notes", lost))
		return
	}
	sink.Report(diag.New(diag.ShortNoteMerged, diag.NoIndex, index,
		"duration %v left after cleanup, merging notes into neighbour", empty.Duration).
		With("duration", empty.Duration))
}
