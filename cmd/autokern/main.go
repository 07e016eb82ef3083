/*
Command autokern estimates kerning values for a font.

Usage:

    autokern -font <name|path> [flags]

With -pair, autokern prints the kern of a single character pair. Otherwise
it builds a kerning table for every ordered pair of the characters given by
-chars and writes it as JSON to stdout or to the file given by -out.

Parameters not given as flags are taken from an "autokern" configuration
file in NestedText format, if one is found at the OS's standard locations,
e.g.

    autokern:
      fontsize: 100
      strategy: calibrated

Exit codes are 0 for success, 1 for usage or configuration errors, 2 if
calibration of the font fails and 3 for any other error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/engine/calibrate"
	"github.com/npillmayer/autokern/engine/kern"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'autokern.cli'
func tracer() tracing.Trace {
	return tracing.Select("autokern.cli")
}

const (
	exitOK = iota
	exitUsage
	exitCalibration
	exitFailure
)

// tracerKeys are the tracers of the engine, all set to the level of -trace.
var tracerKeys = []string{
	"autokern.cli", "autokern.config", "autokern.fonts", "autokern.resources",
	"autokern.glyphs", "autokern.blur", "autokern.kern", "autokern.calibrate",
	"autokern.table", "autokern.debug",
}

// settings collects the command line flags.
type settings struct {
	font     string
	size     float64
	chars    string
	pair     string
	strategy string
	out      string
	flat     bool
	omitZero bool
	workers  int
	compare  bool
	debugDir string
	trace    string
	log      string
}

func main() {
	initDisplay()
	s := parseFlags(os.Args[1:])
	if s == nil {
		os.Exit(exitUsage)
	}
	conf := koanfadapter.New(nil, "autokern", []string{"nt"})
	conf.InitDefaults()
	if err := setupTracing(conf, s); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(exitUsage)
	}
	regs, err := configure(conf, s)
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		os.Exit(exitUsage)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, s, regs)
	stop()
	os.Exit(code)
}

func parseFlags(args []string) *settings {
	s := &settings{}
	fs := flag.NewFlagSet("autokern", flag.ContinueOnError)
	fs.StringVar(&s.font, "font", "", "Font to use (name of a system font or path to a font file)")
	fs.Float64Var(&s.size, "size", 0, "Font size in pixels per em")
	fs.StringVar(&s.chars, "chars", "", "Characters to build a kerning table for")
	fs.StringVar(&s.pair, "pair", "", "Estimate the kern of a single pair of characters")
	fs.StringVar(&s.strategy, "strategy", "", "Kern selection strategy ["+strings.Join(kern.Strategies(), "|")+"]")
	fs.StringVar(&s.out, "out", "", "Output file for the kerning table (default stdout)")
	fs.BoolVar(&s.flat, "flat", false, "Write the table as a flat pair map, without font information")
	fs.BoolVar(&s.omitZero, "omit-zero", false, "Do not list pairs with a kern of zero")
	fs.IntVar(&s.workers, "workers", 0, "Number of concurrent pair estimations")
	fs.BoolVar(&s.compare, "compare", false, "Compare a pair's kern with the font's own kerning")
	fs.StringVar(&s.debugDir, "debug-dir", "", "Directory to write debug images of kerned pairs to")
	fs.StringVar(&s.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	fs.StringVar(&s.log, "log", "go", "Trace adapter [go|logrus]")
	if err := fs.Parse(args); err != nil {
		return nil
	}
	if s.font == "" {
		pterm.Error.Println("no font given, use -font")
		fs.Usage()
		return nil
	}
	return s
}

// setupTracing installs the trace adapters and configures all tracers of the
// engine from conf.
func setupTracing(conf *koanfadapter.KConf, s *settings) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	switch s.log {
	case "go", "logrus":
		conf.Set("tracing.adapter", s.log)
	default:
		return fmt.Errorf("unknown trace adapter %q", s.log)
	}
	conf.Set("trace.root", s.trace)
	for _, key := range tracerKeys {
		conf.Set("trace."+key, s.trace)
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("error configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	level := tracing.TraceLevelFromString(s.trace)
	for _, key := range tracerKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("trace level is %s", s.trace)
	return nil
}

// configure overrides configuration values with the flags set on the command
// line and creates the parameter registers from the result.
func configure(conf *koanfadapter.KConf, s *settings) (*parameters.Registers, error) {
	if s.size > 0 {
		conf.Set(parameters.P_FONTSIZE.Key(), fmt.Sprintf("%g", s.size))
	}
	if s.strategy != "" {
		conf.Set(parameters.P_STRATEGY.Key(), s.strategy)
	}
	if s.chars != "" {
		conf.Set(parameters.P_CHARSET.Key(), s.chars)
	}
	if s.workers > 0 {
		conf.Set(parameters.P_WORKERS.Key(), s.workers)
	}
	if s.omitZero {
		conf.Set(parameters.P_OMITZERO.Key(), true)
	}
	return parameters.FromConfig(conf)
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var failed *calibrate.FailedError
	if errors.As(err, &failed) {
		return exitCalibration
	}
	if core.Code(err) == core.EINVALID {
		return exitUsage
	}
	return exitFailure
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Error.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
}
