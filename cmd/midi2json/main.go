// Package main is the entry point for the midi2json CLI
package main

import (
	"fmt"
	"os"

	"github.com/james-see/midi2json/pkg/api"
	"github.com/james-see/midi2json/pkg/convert"
	"github.com/james-see/midi2json/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile  string
	includeMeta bool
	deltaTimes  bool
	pretty      bool
	serverPort  int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2json",
	Short: "Convert MIDI files to a timestamped JSON event stream",
	Long: `midi2json flattens a standard MIDI file into a single chronologically
ordered event stream with wall-clock timestamps and writes it as JSON.

Multi-track files are merged per the header's track layout, and tempo
changes are honored when computing each event's position in time.

Examples:
  midi2json convert song.mid
  midi2json convert song.mid -o song.json --meta --pretty
  midi2json convert song.mid --delta
  midi2json tui
  midi2json serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <input.mid>",
	Short: "Convert a MIDI file to JSON",
	Long:  `Converts a MIDI file to a JSON event stream, written to the output file or stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
	convertCmd.Flags().BoolVarP(&includeMeta, "meta", "m", false, "Include meta events in the output")
	convertCmd.Flags().BoolVarP(&deltaTimes, "delta", "d", false, "Emit timing as deltas instead of absolute timestamps")
	convertCmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Emit prettified JSON")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	opts := convert.Options{
		IncludeMeta: includeMeta,
		DeltaTimes:  deltaTimes,
		Pretty:      pretty,
	}

	if err := convert.ConvertFile(input, outputFile, opts); err != nil {
		return err
	}

	if outputFile != "" {
		fmt.Printf("Converted %s -> %s\n", input, outputFile)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
