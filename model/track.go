package model

type Track struct {
	Name            string                `json:"name"`
	AverageTempo    float64               `json:"averageTempo"`
	DifficultyLevel int                   `json:"difficultyLevel"`
	ChordTemplates  map[int]ChordTemplate `json:"chordTemplates"`
	Bars            []*Bar                `json:"bars"`
}
