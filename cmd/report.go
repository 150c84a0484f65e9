package cmd

import (
	"fmt"
	"sort"

	"github.com/jsphweid/tabrhythm/arrangement"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/spf13/cobra"
)

var reportDifficulty int

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVarP(&reportDifficulty, "difficulty", "d", 0, "highest difficulty level to take notes from")
}

var reportCmd = &cobra.Command{
	Use:   "report <arrangement.json>",
	Short: "Counts the corrections a conversion needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("difficulty") {
			reportDifficulty = cfg.Convert.Difficulty
		}
		a, err := arrangement.ReadArrangementFile(args[0])
		if err != nil {
			return err
		}
		rec := &diag.Recorder{}
		track := arrangement.Convert(a, reportDifficulty, rec)
		report(track.Name, len(track.Bars), rec.Counts())
		return nil
	},
}

func report(name string, numBars int, counts map[diag.Kind]int) {
	kinds := make([]string, 0, len(counts))
	var total int
	for kind, n := range counts {
		kinds = append(kinds, string(kind))
		total += n
	}
	sort.Strings(kinds)

	fmt.Printf("%v: %v bars, %v diagnostics\n", name, numBars, total)
	for _, kind := range kinds {
		fmt.Printf("  %-28v %v\n", kind, counts[diag.Kind(kind)])
	}
}
