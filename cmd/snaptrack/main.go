package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"snaptrack/internal/config"
	"snaptrack/internal/fsio"
	"snaptrack/internal/progress"
	"snaptrack/internal/state"
	"snaptrack/internal/track"
)

var (
	cfgFile    string
	outputFile string
	workers    int
)

var rootCmd = &cobra.Command{
	Use:   "snaptrack",
	Short: "Content-addressed filesystem snapshots and change tracking",
	Long: `snaptrack captures a signed snapshot of a filesystem subtree and
computes the structural difference between two snapshots: which paths were
added, removed, modified or left unchanged, with a best-effort guess at
renames.`,
	SilenceUsage: true,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <directory>",
	Short: "Capture a snapshot of a directory tree and write it as XML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		st, err := takeSnapshot(args[0], cfg)
		if err != nil {
			return err
		}

		if err := st.Save(outputFile); err != nil {
			return err
		}
		fmt.Printf("Snapshot %s written to %s (%d nodes)\n",
			st.ID(), outputFile, len(st.NodesByLocation()))
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <old.xml> <directory|new.xml>",
	Short: "Compare a saved snapshot against a directory or another snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		previous, err := state.Load(args[0])
		if err != nil {
			return err
		}

		var newState *state.State
		if fsio.NewOS().IsDir(args[1]) {
			newState, err = takeSnapshot(args[1], cfg)
		} else {
			newState, err = state.Load(args[1])
		}
		if err != nil {
			return err
		}

		tracker := &track.Tracker{}
		change, err := tracker.DetectChanges(newState, previous)
		if err != nil {
			return err
		}
		for _, prefix := range cfg.Exclude {
			change.RemoveLocation(prefix)
		}

		fmt.Println(track.FormatReport(change))

		if change.AnyChanges() {
			os.Exit(1)
		}
		return nil
	},
}

func takeSnapshot(directory string, cfg *config.Config) (*state.State, error) {
	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", directory, err)
	}

	fs := fsio.NewOS()
	st := state.NewWithFS(absDirectory, fs)

	bar := progress.New("Scanning " + absDirectory)
	defer bar.Finish()

	count := workers
	if count <= 0 {
		count = cfg.Workers
	}
	err = st.Populate(cfg.SignatureFilter(fs), count, func(*state.Node) {
		bar.Increment()
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "snaptrack.yaml", "config file path")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "concurrent file hashes per directory (default: config or CPU count)")
	snapshotCmd.Flags().StringVarP(&outputFile, "output", "o", "state.xml", "output snapshot path")

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(diffCmd)

	logrus.SetOutput(os.Stderr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
