package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/model"
)

// Templates maps chord ids to their fret templates. The first template
// registered for an id wins.
type Templates struct {
	byID map[int]model.ChordTemplate
}

func NewTemplates() *Templates {
	return &Templates{byID: make(map[int]model.ChordTemplate)}
}

// Add returns false when the id was already taken.
func (t *Templates) Add(template model.ChordTemplate) bool {
	if _, ok := t.byID[template.ChordID]; ok {
		return false
	}
	t.byID[template.ChordID] = template
	return true
}

func (t *Templates) Get(id int) (model.ChordTemplate, bool) {
	template, ok := t.byID[id]
	return template, ok
}

func (t *Templates) Len() int {
	return len(t.byID)
}

func (t *Templates) IDs() []int {
	ids := make([]int, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (t *Templates) Map() map[int]model.ChordTemplate {
	res := make(map[int]model.ChordTemplate, len(t.byID))
	for id, template := range t.byID {
		res[id] = template
	}
	return res
}

// FromArrangement registers the arrangement's templates in order. A template
// without an explicit id takes its list position.
func FromArrangement(templates []model.ArrangementTemplate, sink diag.Sink) *Templates {
	sink = diag.OrDiscard(sink)
	res := NewTemplates()
	for i, raw := range templates {
		template := model.ChordTemplate{ChordID: i, Name: raw.Name}
		if raw.ChordID != nil {
			template.ChordID = *raw.ChordID
		}
		for s := 0; s < constants.NumStrings; s++ {
			template.Frets[s] = -1
			if s < len(raw.Frets) {
				template.Frets[s] = raw.Frets[s]
			}
			if s < len(raw.Fingers) {
				template.Fingers[s] = raw.Fingers[s]
			}
		}
		if template.Name == "" {
			template.Name = Key(template.Frets)
		}
		if !res.Add(template) {
			sink.Report(diag.New(diag.DuplicateChordTemplate, diag.NoIndex, diag.NoIndex,
				"chord id %v already present in templates list", template.ChordID).
				With("chordId", template.ChordID))
		}
	}
	return res
}

// Chord builds a chord at start with every string the template frets.
func (t *Templates) Chord(id int, start float64) (*model.Chord, bool) {
	c := model.NewChord(start)
	c.ChordID = id
	template, ok := t.Get(id)
	if !ok {
		return c, false
	}
	for s, fret := range template.Frets {
		if fret >= 0 {
			c.Notes[s] = &model.Note{String: s, Fret: fret}
		}
	}
	return c, true
}

// Key renders frets low string first, "x" for unplayed strings: "x-3-2-0-1-0".
func Key(frets [constants.NumStrings]int) string {
	parts := make([]string, len(frets))
	for i, fret := range frets {
		if fret < 0 {
			parts[i] = "x"
		} else {
			parts[i] = fmt.Sprintf("%v", fret)
		}
	}
	return strings.Join(parts, "-")
}

func NotesKey(notes model.Notes) string {
	var frets [constants.NumStrings]int
	for s, n := range notes {
		frets[s] = -1
		if n != nil {
			frets[s] = n.Fret
		}
	}
	return Key(frets)
}
