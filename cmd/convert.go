package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/jsphweid/tabrhythm/arrangement"
	"github.com/jsphweid/tabrhythm/constants"
	"github.com/jsphweid/tabrhythm/diag"
	"github.com/jsphweid/tabrhythm/midi"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/jsphweid/tabrhythm/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// given as --midi without a file name
const midiAutoName = "auto"

var (
	convertDifficulty int
	convertOut        string
	convertMidi       string
	convertWatch      bool
)

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().IntVarP(&convertDifficulty, "difficulty", "d", 0, "highest difficulty level to take notes from")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "track json path (default <out dir>/<name>.track.json)")
	convertCmd.Flags().StringVar(&convertMidi, "midi", "", "also write a midi file")
	convertCmd.Flags().Lookup("midi").NoOptDefVal = midiAutoName
	convertCmd.Flags().BoolVarP(&convertWatch, "watch", "w", false, "convert again whenever the arrangement changes")
}

var convertCmd = &cobra.Command{
	Use:   "convert <arrangement.json>",
	Short: "Converts an arrangement into a notated track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("difficulty") {
			convertDifficulty = cfg.Convert.Difficulty
		}
		run := func() error {
			return Convert(args[0], convertDifficulty, convertOut, convertMidi)
		}
		if !convertWatch {
			return run()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := run(); err != nil {
			logger.Error("convert failed", "file", args[0], "err", err)
		}
		return watch(ctx, args[0], cfg.Watch.Interval, cfg.Watch.Debounce, func() {
			if err := run(); err != nil {
				logger.Error("convert failed", "file", args[0], "err", err)
			}
		})
	},
}

func defaultTrackPath(arrangementPath string) string {
	name := strings.TrimSuffix(filepath.Base(arrangementPath), filepath.Ext(arrangementPath))
	return filepath.Join(constants.GetOutDir(), name+".track.json")
}

// Convert reads one arrangement and writes its track, plus a midi file when
// midiOut is set.
func Convert(path string, difficulty int, out, midiOut string) error {
	a, err := arrangement.ReadArrangementFile(path)
	if err != nil {
		return err
	}

	rec := &diag.Recorder{}
	track := arrangement.Convert(a, difficulty, diag.Multi(rec, diag.NewLogger(logger, slog.String("file", path))))

	if out == "" {
		out = defaultTrackPath(path)
	}
	if err := util.WriteJSONFile(out, track); err != nil {
		return err
	}
	fmt.Printf("wrote %v: %v bars, difficulty %v, %v corrections\n",
		out, len(track.Bars), track.DifficultyLevel, len(rec.All()))

	if midiOut == "" {
		return nil
	}
	if midiOut == midiAutoName {
		midiOut = filepath.Join(constants.GetOutDir(), uuid.New().String()+".mid")
	}
	if err := writeMidi(midiOut, track); err != nil {
		return err
	}
	fmt.Printf("wrote %v\n", midiOut)
	return nil
}

func writeMidi(path string, track *model.Track) error {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "creating %v", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %v", path)
	}
	defer f.Close()
	return midi.WriteTrack(f, track, cfg.Convert.MidiTempo)
}

// watch polls path and calls onChange once the file has stopped changing for
// wait. It returns when ctx is done.
func watch(ctx context.Context, path string, interval, wait time.Duration, onChange func()) error {
	stat, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "watching %v", path)
	}
	last := stat.ModTime()
	debounced := debounce.New(wait)

	logger.Info("watching for changes", "file", path)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stat, err := os.Stat(path)
			if err != nil {
				logger.Warn("watch: could not stat file", "file", path, "err", err)
				continue
			}
			if stat.ModTime().After(last) {
				last = stat.ModTime()
				debounced(onChange)
			}
		}
	}
}
