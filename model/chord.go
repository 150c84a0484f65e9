package model

import "github.com/jsphweid/tabrhythm/constants"

// Notes is indexed by string, nil means the string is not played.
type Notes = [constants.NumStrings]*Note

// NoChordID marks chords built from single notes.
const NoChordID = -1

type Chord struct {
	Start    float64 `json:"start"`
	Duration int     `json:"duration"` // ticks, 0 until assigned
	Notes    Notes   `json:"notes"`
	ChordID  int     `json:"chordId"`

	// Tied is set on continuation parts of a split duration
	Tied bool `json:"tied,omitempty"`
}

func NewChord(start float64) *Chord {
	return &Chord{Start: start, ChordID: NoChordID}
}

func (c *Chord) IsSilence() bool {
	for _, n := range c.Notes {
		if n != nil {
			return false
		}
	}
	return true
}

// Absorb copies the notes of other onto strings c does not occupy yet.
func (c *Chord) Absorb(other *Chord) {
	for s, n := range other.Notes {
		if n != nil && c.Notes[s] == nil {
			c.Notes[s] = n
		}
	}
}

func (c *Chord) NoteCount() int {
	var count int
	for _, n := range c.Notes {
		if n != nil {
			count++
		}
	}
	return count
}

type ChordTemplate struct {
	ChordID int                       `json:"chordId"`
	Name    string                    `json:"name"`
	Frets   [constants.NumStrings]int `json:"frets"`
	Fingers [constants.NumStrings]int `json:"fingers"`
}
