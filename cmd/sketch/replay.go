package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/export"
	"github.com/inamate/drawer/internal/remote"
)

var (
	replayOutput string
	replayFont   string
	replayStrict bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [events.json]",
	Short: "Replay a message script into a fresh canvas and write a PNG",
	Long: `Replay feeds every message of a recorded script (a JSON array, or one
message after another) through a new canvas engine, exactly as the server
would for a connected client, then rasterizes the final canvas.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "out.png", "PNG file to write")
	replayCmd.Flags().StringVar(&replayFont, "font", "", "TTF font for text shapes (defaults to FONT_PATH)")
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "fail when any message is rejected")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	msgs, err := remote.DecodeScript(data)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(cfg.EngineOptions())
	defer eng.Close()

	rejected := remote.Replay(eng, msgs)
	if rejected > 0 && replayStrict {
		return fmt.Errorf("%d of %d messages rejected", rejected, len(msgs))
	}

	font := replayFont
	if font == "" {
		font = cfg.FontPath
	}

	out, err := os.Create(replayOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.WritePNG(out, eng, font); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Replayed %d messages (%d rejected), %d shapes -> %s\n",
		len(msgs), rejected, eng.Store().Len(), replayOutput)
	return nil
}
