package model

// Arrangement is the interchange form handed over by the container decoder.
type Arrangement struct {
	Title            string                `json:"title"`
	Arrangement      string                `json:"arrangement"`
	AverageTempo     float64               `json:"averageTempo"`
	SongLength       float64               `json:"songLength"`
	Ebeats           []Ebeat               `json:"ebeats"`
	ChordTemplates   []ArrangementTemplate `json:"chordTemplates"`
	Phrases          []Phrase              `json:"phrases"`
	PhraseIterations []PhraseIteration     `json:"phraseIterations"`
	Levels           []Level               `json:"levels"`
}

// Ebeat with Measure >= 0 starts a new bar, a negative Measure is a sub-beat.
type Ebeat struct {
	Time    float64 `json:"time"`
	Measure int     `json:"measure"`
}

type ArrangementTemplate struct {
	ChordID *int   `json:"chordId,omitempty"`
	Name    string `json:"name"`
	Frets   []int  `json:"frets"`
	Fingers []int  `json:"fingers"`
}

type Phrase struct {
	Name          string `json:"name"`
	MaxDifficulty int    `json:"maxDifficulty"`
}

type PhraseIteration struct {
	Time     float64 `json:"time"`
	PhraseID int     `json:"phraseId"`
}

type Level struct {
	Difficulty int          `json:"difficulty"`
	Notes      []NoteEvent  `json:"notes"`
	Chords     []ChordEvent `json:"chords"`
}

type NoteEvent struct {
	Time   float64 `json:"time"`
	String int     `json:"string"`
	Fret   int     `json:"fret"`
}

type ChordEvent struct {
	Time       float64     `json:"time"`
	ChordID    int         `json:"chordId"`
	ChordNotes []NoteEvent `json:"chordNotes,omitempty"`
}
