package model

// RhythmValue is one notated value. Consecutive values sharing a NoteIndex
// are tied.
type RhythmValue struct {
	Duration  int `json:"duration"`
	NoteIndex int `json:"noteIndex"`
}
