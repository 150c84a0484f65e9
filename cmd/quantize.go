package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/midi"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/quantize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	quantizeMeasure     float64
	quantizeBeat        int
	quantizeMidi        string
	quantizeTrack       int
	quantizeBeatsPerBar int
)

func init() {
	rootCmd.AddCommand(quantizeCmd)
	quantizeCmd.Flags().Float64VarP(&quantizeMeasure, "measure", "m", 192, "measure length in ticks")
	quantizeCmd.Flags().IntVarP(&quantizeBeat, "beat", "b", 48, "beat length in ticks")
	quantizeCmd.Flags().StringVar(&quantizeMidi, "midi", "", "read measures from this midi file instead")
	quantizeCmd.Flags().IntVar(&quantizeTrack, "track", 0, "midi track to read")
	quantizeCmd.Flags().IntVar(&quantizeBeatsPerBar, "beats-per-bar", 4, "quarter notes per bar of the midi file")
}

var quantizeCmd = &cobra.Command{
	Use:   "quantize <d1> <d2> ...",
	Short: "Fits free durations into one measure of printable note values",
	Example: `  tabrhythm quantize 1.01 0.99 1 1
  tabrhythm quantize --midi song.mid --track 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("measure") {
			quantizeMeasure = cfg.Quantize.MeasureDuration
		}
		if !cmd.Flags().Changed("beat") {
			quantizeBeat = cfg.Quantize.BeatDuration
		}
		sink := diag.NewLogger(logger)

		if quantizeMidi != "" {
			return quantizeMidiFile(quantizeMidi, quantizeTrack, quantizeBeatsPerBar, sink)
		}

		durations := make([]float64, len(args))
		for i, arg := range args {
			d, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return errors.Wrapf(err, "duration %v", i)
			}
			durations[i] = d
		}
		values, err := quantize.Quantize(durations, quantizeMeasure, quantizeBeat, sink)
		if err != nil {
			return err
		}
		fmt.Println(FormatValues(values))
		return nil
	},
}

func quantizeMidiFile(path string, track, beatsPerBar int, sink diag.Sink) error {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	measures, err := midi.MeasureDurations(s, track, beatsPerBar)
	if err != nil {
		return err
	}
	measure := float64(beatsPerBar * quantizeBeat)
	for m, durations := range measures {
		values, err := quantize.Quantize(durations, measure, quantizeBeat, diag.ForBar(sink, m))
		if err != nil {
			return errors.Wrapf(err, "measure %v", m)
		}
		fmt.Printf("%4d | %v\n", m, FormatValues(values))
	}
	return nil
}

// FormatValues prints durations separated by spaces, tied values joined by "~".
func FormatValues(values []model.RhythmValue) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			if values[i-1].NoteIndex == v.NoteIndex {
				sb.WriteString("~")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(strconv.Itoa(v.Duration))
	}
	return sb.String()
}
