package main

import (
	"context"
	"os"
	"sync"

	"github.com/npillmayer/autokern/backend/gfx/debugimg"
	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/autokern/core/font/fontregistry"
	"github.com/npillmayer/autokern/core/locate/resources"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/autokern/core/percent"
	"github.com/npillmayer/autokern/engine/calibrate"
	"github.com/npillmayer/autokern/engine/glyphing/harfbuzz"
	"github.com/npillmayer/autokern/engine/kerntable"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/language"
)

// run loads the font, calibrates it and executes pair or table mode.
// It returns the process exit code.
func run(ctx context.Context, s *settings, regs *parameters.Registers) int {
	style, weight := fontregistry.GuessStyleAndWeight(s.font)
	size := regs.F(parameters.P_FONTSIZE)
	tc, err := resources.ResolveTypeCase(s.font, style, weight, size).Await(ctx)
	if err != nil {
		if tc == nil || core.Code(err) != core.EMISSING {
			pterm.Error.Println(core.UserMessage(err))
			return exitCode(err)
		}
		pterm.Warning.Println(core.UserMessage(err))
	}
	pterm.Info.Printfln("using font %s at %gpx", tc.ScalableFontParent().Fontname, tc.Size())
	est, err := kerntable.NewEstimator(tc, regs, calibrate.GlobalStore())
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		return exitCode(err)
	}
	pterm.Info.Printfln("calibration: %s", est.Calibration)
	if s.pair != "" {
		err = pairMode(est, tc, s)
	} else {
		err = tableMode(ctx, est, regs, s)
	}
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
	}
	return exitCode(err)
}

// pairMode estimates a single pair and prints it, optionally together with
// the kerning of the font itself.
func pairMode(est *kerntable.Estimator, tc *font.TypeCase, s *settings) error {
	left, right, err := kerntable.Pair(s.pair)
	if err != nil {
		return err
	}
	d, ok, err := est.EstimateKern(left, right)
	if err != nil {
		return err
	}
	if !ok {
		return core.Error(core.EMISSING, "font has no glyph for pair %q", s.pair)
	}
	data := pterm.TableData{
		{"pair", "source", "kern (px)", "kern (advance)"},
		{d.Pair(), "estimated", pterm.Sprintf("%.2f", d.Pixels), d.Percent.String()},
	}
	if s.compare {
		if k, err := tc.Kern(d.Left, d.Right); err == nil {
			data = append(data, []string{d.Pair(), "kern table", pterm.Sprintf("%.2f", k),
				percent.OfAdvance(k, d.Advance).String()})
		} else {
			tracer().Infof("no kern table value: %v", err)
		}
		if k, err := shapedKern(tc, d.Left, d.Right); err == nil {
			data = append(data, []string{d.Pair(), "shaped", pterm.Sprintf("%.2f", k),
				percent.OfAdvance(k, d.Advance).String()})
		} else {
			tracer().Infof("cannot shape pair: %v", err)
		}
	}
	if err = pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot print result")
	}
	if s.debugDir != "" {
		return saveDebugImage(est, s.debugDir, d)
	}
	return nil
}

func shapedKern(tc *font.TypeCase, left, right rune) (float64, error) {
	kerner, err := harfbuzz.NewKerner(tc, language.English)
	if err != nil {
		return 0, err
	}
	return kerner.Kern(left, right)
}

// tableMode generates a kerning table and writes it as JSON.
func tableMode(ctx context.Context, est *kerntable.Estimator, regs *parameters.Registers, s *settings) error {
	chars := kerntable.Charset(regs.S(parameters.P_CHARSET))
	if len(chars) == 0 {
		return core.Error(core.EINVALID, "no characters to build a kerning table for")
	}
	opts := kerntable.OptionsFromRegisters(regs)
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(len(chars) * len(chars)).
		WithTitle("Kerning pairs").
		WithWriter(os.Stderr).
		Start()
	var mx sync.Mutex
	opts.Progress = func(d kerntable.Decision, done, total int) {
		mx.Lock()
		defer mx.Unlock()
		if bar != nil {
			bar.Increment()
		}
		if s.debugDir != "" && d.Pixels != 0 {
			if err := saveDebugImage(est, s.debugDir, d); err != nil {
				tracer().Errorf("debug image for %q: %v", d.Pair(), err)
			}
		}
	}
	table, err := kerntable.Generate(ctx, est, chars, opts)
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return err
	}
	pterm.Info.Printfln("kerning table with %d pairs", table.Len())
	return writeTable(table, s.out, !s.flat)
}

// writeTable writes a kerning table to file out, or to stdout if out is empty.
func writeTable(table *kerntable.Table, out string, wrapped bool) error {
	if out == "" {
		return table.WriteJSON(os.Stdout, wrapped)
	}
	f, err := os.Create(out)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create output file %s", out)
	}
	if err = table.WriteJSON(f, wrapped); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write output file %s", out)
	}
	return nil
}

func saveDebugImage(est *kerntable.Estimator, dir string, d kerntable.Decision) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create debug directory %s", dir)
	}
	l, err := est.Renderer.Glyph(d.Left)
	if err != nil {
		return err
	}
	r, err := est.Renderer.Glyph(d.Right)
	if err != nil {
		return err
	}
	kw := est.Calibration.KernelWidth
	l, r = est.Searcher.Blur(l, kw), est.Searcher.Blur(r, kw)
	path, err := debugimg.SavePair(dir, l, r, d.Pixels, basicfont.Face7x13)
	if err == nil {
		tracer().Debugf("saved %s", path)
	}
	return err
}
