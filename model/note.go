package model

type Note struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}
