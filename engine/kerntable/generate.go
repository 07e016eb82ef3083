package kerntable

import (
	"context"
	"sync/atomic"
	"unicode/utf8"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/parameters"
	"github.com/npillmayer/uax/grapheme"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// Charset splits a string into the characters to build a kerning table for.
// The string is NFC-normalized and split into grapheme clusters. Clusters
// consisting of more than one code-point cannot be kerned as a single glyph
// and are dropped, as are duplicates. The order of first appearance is kept.
func Charset(s string) []rune {
	all, _ := clusters(s)
	seen := make(map[rune]bool)
	var chars []rune
	for _, r := range all {
		if !seen[r] {
			seen[r] = true
			chars = append(chars, r)
		}
	}
	return chars
}

// Pair splits a string of two characters into the left and right character
// of a kerning pair. The string is NFC-normalized first. Both characters may
// be equal. If s does not consist of exactly two single code-point
// characters, Pair returns an error with code core.EINVALID.
func Pair(s string) (left, right rune, err error) {
	chars, dropped := clusters(s)
	if dropped > 0 || len(chars) != 2 {
		return 0, 0, core.Error(core.EINVALID, "a pair needs exactly two characters, have %q", s)
	}
	return chars[0], chars[1], nil
}

// clusters NFC-normalizes s and returns its grapheme clusters which consist
// of a single code-point, in order and including duplicates. dropped counts
// the clusters of more than one code-point.
func clusters(s string) (chars []rune, dropped int) {
	s = norm.NFC.String(s)
	if s == "" {
		return nil, 0
	}
	grapheme.SetupGraphemeClasses()
	gstr := grapheme.StringFromString(s)
	for i := 0; i < gstr.Len(); i++ {
		cluster := gstr.Nth(i)
		if utf8.RuneCountInString(cluster) != 1 {
			tracer().Infof("cannot kern grapheme cluster %q, dropped", cluster)
			dropped++
			continue
		}
		r, _ := utf8.DecodeRuneInString(cluster)
		chars = append(chars, r)
	}
	return chars, dropped
}

// Options control table generation.
type Options struct {
	Workers  int                               // number of concurrent pair estimations, at least 1
	OmitZero bool                              // do not store pairs with kern 0
	Progress func(d Decision, done, total int) // called after every pair, possibly concurrently
}

// OptionsFromRegisters extracts generation options from a parameter set.
func OptionsFromRegisters(regs *parameters.Registers) Options {
	return Options{
		Workers:  regs.Workers(),
		OmitZero: regs.B(parameters.P_OMITZERO),
	}
}

// Generate estimates the kern of every ordered pair of chars and collects the
// results in a table. Pairs with a missing glyph are skipped. Generation stops
// at the first error or when ctx is done.
func Generate(ctx context.Context, est *Estimator, chars []rune, opts Options) (*Table, error) {
	table := NewTable(est.Fontname, est.Renderer.Face().Size())
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	total := len(chars) * len(chars)
	tracer().Infof("generating kerning table for %d pairs with %d workers", total, workers)
	var done int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, l := range chars {
		for _, r := range chars {
			if gctx.Err() != nil {
				break
			}
			l, r := l, r
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				d, ok, err := est.EstimateKern(l, r)
				if err != nil {
					return err
				}
				if ok && !(opts.OmitZero && d.Percent == 0) {
					table.Put(d.Pair(), d.Percent)
				}
				n := atomic.AddInt64(&done, 1)
				if opts.Progress != nil {
					opts.Progress(d, int(n), total)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return table, err
	}
	return table, ctx.Err()
}
