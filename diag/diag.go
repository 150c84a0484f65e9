// Package diag collects the anomalies found while quantizing. Nothing here is
// fatal; every record describes a fallback that was applied.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type Kind string

const (
	ShortNoteMerged        Kind = "short-note-merged"
	ShortNoteMergedNextBar Kind = "short-note-merged-next-bar"
	ShortNoteDropped       Kind = "short-note-dropped"
	BarTotalCorrected      Kind = "bar-total-corrected"
	ShiftedToPrevious      Kind = "shifted-to-previous"
	ShiftedToNext          Kind = "shifted-to-next"
	InsaneDuration         Kind = "insane-duration"
	InsanePrintable        Kind = "insane-printable"
	UnsplittableDuration   Kind = "unsplittable-duration"
	ZeroDurationDropped    Kind = "zero-duration-dropped"
	MissingChordTemplate   Kind = "missing-chord-template"
	DuplicateChordTemplate Kind = "duplicate-chord-template"
	OrphanSubBeat          Kind = "orphan-sub-beat"
	SilenceInserted        Kind = "silence-inserted"
	StringOutOfRange       Kind = "string-out-of-range"
)

// NoIndex is used for Bar or Chord when the record is not tied to one.
const NoIndex = -1

type Diagnostic struct {
	Kind    Kind           `json:"kind"`
	Bar     int            `json:"bar"`
	Chord   int            `json:"chord"`
	Message string         `json:"message"`
	Values  map[string]int `json:"values,omitempty"`
}

type Sink interface {
	Report(d Diagnostic)
}

func New(kind Kind, bar, chord int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Bar:     bar,
		Chord:   chord,
		Message: fmt.Sprintf(format, args...),
	}
}

// With returns a copy of d carrying an extra named value.
func (d Diagnostic) With(key string, value int) Diagnostic {
	values := make(map[string]int, len(d.Values)+1)
	for k, v := range d.Values {
		values[k] = v
	}
	values[key] = value
	d.Values = values
	return d
}

type discard struct{}

func (discard) Report(Diagnostic) {}

var Discard Sink = discard{}

// Recorder keeps every diagnostic in memory.
type Recorder struct {
	mu      sync.Mutex
	records []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, d)
}

func (r *Recorder) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Diagnostic, len(r.records))
	copy(res, r.records)
	return res
}

func (r *Recorder) OfKind(kind Kind) []Diagnostic {
	var res []Diagnostic
	for _, d := range r.All() {
		if d.Kind == kind {
			res = append(res, d)
		}
	}
	return res
}

func (r *Recorder) Counts() map[Kind]int {
	res := make(map[Kind]int)
	for _, d := range r.All() {
		res[d.Kind]++
	}
	return res
}

// Logger writes diagnostics to a slog.Logger. Corrections are logged at debug
// level, real losses at warn level.
type Logger struct {
	Log   *slog.Logger
	Attrs []slog.Attr
}

func NewLogger(log *slog.Logger, attrs ...slog.Attr) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{Log: log, Attrs: attrs}
}

func (l *Logger) Report(d Diagnostic) {
	attrs := append([]slog.Attr{
		slog.String("kind", string(d.Kind)),
		slog.Int("bar", d.Bar),
		slog.Int("chord", d.Chord),
	}, l.Attrs...)
	for k, v := range d.Values {
		attrs = append(attrs, slog.Int(k, v))
	}
	l.Log.LogAttrs(context.Background(), Level(d.Kind), d.Message, attrs...)
}

func Level(kind Kind) slog.Level {
	switch kind {
	case ShortNoteDropped, InsaneDuration, UnsplittableDuration,
		MissingChordTemplate, DuplicateChordTemplate, OrphanSubBeat, StringOutOfRange:
		return slog.LevelWarn
	}
	return slog.LevelDebug
}

type multi []Sink

func (m multi) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

// OrDiscard lets callers pass a nil sink.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

type barSink struct {
	sink Sink
	bar  int
}

func (s barSink) Report(d Diagnostic) {
	d.Bar = s.bar
	s.sink.Report(d)
}

// ForBar stamps every diagnostic with the given bar index.
func ForBar(s Sink, bar int) Sink {
	return barSink{sink: s, bar: bar}
}
