package cmd

import (
	"fmt"

	"github.com/jsphweid/tabrhythm/chord"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <track.json>",
	Short: "Inspects a converted track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var track model.Track
		if err := util.ReadJSONFile(args[0], &track); err != nil {
			return err
		}
		inspect(&track)
		return nil
	},
}

func inspect(track *model.Track) {
	fmt.Printf("name: %v\n", track.Name)
	fmt.Printf("difficulty: %v\n", track.DifficultyLevel)
	for b, bar := range track.Bars {
		fmt.Printf("bar %v: %v/%v at %.1f bpm, %v of %v ticks\n",
			b, bar.TimeNominator, bar.TimeDenominator, bar.Tempo, bar.TotalTicks(), bar.ExpectedTicks())
		for _, c := range bar.Chords {
			name := chord.NotesKey(c.Notes)
			if template, ok := track.ChordTemplates[c.ChordID]; ok {
				name = template.Name
			}
			if c.IsSilence() {
				name = "rest"
			}
			tie := ""
			if c.Tied {
				tie = "~"
			}
			fmt.Printf("  %8.3f %1v%-3v %v\n", c.Start, tie, c.Duration, name)
		}
	}
}
