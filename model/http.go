package model

import "github.com/jsphweid/tabrhythm/diag"

type QuantizeRequestBody struct {
	Durations       []float64 `json:"durations"`
	MeasureDuration float64   `json:"measureDuration"`
	BeatDuration    int       `json:"beatDuration"`
}

type QuantizeResponse struct {
	Values []RhythmValue `json:"values"`
}

type ConvertResponse struct {
	Track       *Track            `json:"track"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
