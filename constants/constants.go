package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("TABRHYTHM_OUT")
	if path != "" {
		return path
	}
	return "./out"
}

func GetConfigPath() string {
	path := os.Getenv("TABRHYTHM_CONFIG")
	if path != "" {
		return path
	}
	return "tabrhythm.yaml"
}

// 48 ticks make a quarter note
const TicksPerWholeNote = 192

// a duration of 2 is a 64th triplet, nothing shorter gets notated
const MinDuration = 2

const NumStrings = 6

// used when an arrangement carries no usable tempo
const DefaultTempo = 120.0

// NOTE: 196 (not 192) is what the arrangement converter has always accepted as
// a sane whole note. Kept as-is, PrintableDurations below has 192.
var SaneDurations = []int{2, 3, 4, 6, 8, 9, 12, 16, 18, 24, 32, 36, 48, 72, 96, 144, 196}

var PrintableDurations = []int{1, 2, 3, 4, 6, 8, 9, 12, 16, 18, 24, 32, 36, 48, 72, 96, 144, 192}

// order matters, the first shift that works wins
var Shifts = []int{1, -1, 2, -2, 3, -3}

// open string pitches in standard tuning, low E first
var OpenPitches = [NumStrings]uint8{40, 45, 50, 55, 59, 64}
