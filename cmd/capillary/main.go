// Command capillary refines peaks, finds histogram modes and estimates
// liquid surface tension from ripple intensity profiles.
//
// Usage:
//
//	capillary [-v] <command> [flags] [file]
//
// Commands:
//
//	peak     sub-sample peak of one sequence
//	argmax   index of the largest value
//	mode     two-pass histogram mode of a set of measurements
//	tension  surface tension from a group of intensity profiles
//
// Samples are read from file, or standard input when file is "-" or
// omitted. Results are printed as JSON.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/capillary/algorithms/spline"
	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/logging"
	"github.com/RyanBlaney/capillary/tension"
	"github.com/RyanBlaney/capillary/tension/config"
	"github.com/RyanBlaney/capillary/transcode"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(c *cli, args []string) error
}

var commands = []command{
	{"peak", "sub-sample peak of one sequence", runPeak},
	{"argmax", "index of the largest value", runArgMax},
	{"mode", "two-pass histogram mode of a set of measurements", runMode},
	{"tension", "surface tension from a group of intensity profiles", runTension},
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("capillary", flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "log debug output to stderr")
	global.Usage = func() { printUsage(stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewWriterLogger(stderr)
	logger.SetLevel(logging.WarnLevel)
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	logging.SetGlobalLogger(logger)

	if global.NArg() == 0 {
		printUsage(stderr)
		return 2
	}

	name := global.Arg(0)
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		err := cmd.run(c, global.Args()[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return 2
		default:
			fmt.Fprintf(stderr, "capillary %s: %v\n", name, err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "unknown command: %s\n", name)
	printUsage(stderr)
	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: capillary [-v] <command> [flags] [file]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
}

// inputFlags are shared by every command
type inputFlags struct {
	format    *string
	rowLength *int
}

func newFlagSet(c *cli, name string) (*flag.FlagSet, inputFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	in := inputFlags{
		format:    fs.String("format", string(transcode.FormatText), "sample encoding: text or f64le"),
		rowLength: fs.Int("row-length", 0, "f64le samples per profile, 0 for a single profile"),
	}
	return fs, in
}

func (c *cli) decode(fs *flag.FlagSet, in inputFlags) ([][]float64, error) {
	if fs.NArg() > 1 {
		fmt.Fprintf(c.stderr, "too many arguments: %v\n", fs.Args())
		return nil, errUsage
	}

	decoder, err := transcode.NewDecoder(&transcode.DecoderConfig{
		Format:    transcode.Format(*in.format),
		RowLength: *in.rowLength,
	})
	if err != nil {
		return nil, err
	}

	path := fs.Arg(0)
	if path == "" || path == "-" {
		return decoder.DecodeReader(c.stdin)
	}
	return decoder.DecodeFile(path)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func runPeak(c *cli, args []string) error {
	fs, in := newFlagSet(c, "peak")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := c.decode(fs, in)
	if err != nil {
		return err
	}

	peak, err := spline.Refine(transcode.Flatten(rows))
	if err != nil {
		return err
	}
	return c.print(peak)
}

func runArgMax(c *cli, args []string) error {
	fs, in := newFlagSet(c, "argmax")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := c.decode(fs, in)
	if err != nil {
		return err
	}

	samples := transcode.Flatten(rows)
	idx := stats.ArgMax(samples)
	if idx < 0 {
		return errors.New("no samples")
	}
	return c.print(map[string]any{"index": idx, "value": samples[idx]})
}

func runMode(c *cli, args []string) error {
	fs, in := newFlagSet(c, "mode")
	configPath := fs.String("config", "", "YAML configuration file")
	bins := fs.Int("bins", 0, "fine histogram bins, 0 keeps the configured count")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *bins > 0 {
		cfg.Histogram.Bins = *bins
	}

	rows, err := c.decode(fs, in)
	if err != nil {
		return err
	}

	hist, err := stats.NewModeHistogram(&cfg.Histogram.HistogramConfig)
	if err != nil {
		return err
	}

	result, err := hist.Estimate(transcode.Flatten(rows), cfg.Histogram.Bins)
	if err != nil {
		return err
	}
	return c.print(result)
}

func runTension(c *cli, args []string) error {
	fs, in := newFlagSet(c, "tension")
	configPath := fs.String("config", "", "YAML configuration file")
	distance := fs.Float64("distance", 87, "camera to liquid distance in millimeters")
	frequency := fs.Float64("frequency", 0, "ripple drive frequency in Hz, 0 keeps the configured value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *frequency > 0 {
		cfg.Ripple.FrequencyHz = *frequency
	}

	frames, err := c.decode(fs, in)
	if err != nil {
		return err
	}

	analyzer, err := tension.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(frames, *distance)
	if err != nil {
		return err
	}
	return c.print(result)
}
