package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/autokern/core/font/fontregistry"
	xfont "golang.org/x/image/font"
)

// NotFound returns an application error for a missing font.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING, "font not found: %s, using fallback font", res)
}

type fontPlusErr struct {
	font *font.TypeCase
	err  error
}

// TypeCasePromise is returned by ResolveTypeCase.
type TypeCasePromise interface {
	TypeCase() (*font.TypeCase, error)
	Await(ctx context.Context) (*font.TypeCase, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.TypeCase, error)
}

func (loader fontLoader) TypeCase() (*font.TypeCase, error) {
	return loader.await(context.Background())
}

func (loader fontLoader) Await(ctx context.Context) (*font.TypeCase, error) {
	return loader.await(ctx)
}

// ResolveTypeCase resolves a font type case with a given size (pixels per em).
// name may either be a path to a font file or the name of a font installed on
// the system. Resolution tries, in order:
//
//   - the global font registry,
//   - name as a file path,
//   - name as a system font, located by go-findfont,
//   - a system font whose file name matches name, style and weight.
//
// If everything fails, the promise delivers a type case of the fallback
// font, together with a NotFound error.
func ResolveTypeCase(name string, style xfont.Style, weight xfont.Weight, size float64) TypeCasePromise {
	ch := make(chan fontPlusErr, 1)
	go func(ch chan<- fontPlusErr) {
		defer close(ch)
		ch <- resolve(name, style, weight, size)
	}(ch)
	return fontLoader{
		await: func(ctx context.Context) (*font.TypeCase, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r, ok := <-ch:
				if !ok {
					return nil, core.Error(core.EINTERNAL, "font promise for %s already consumed", name)
				}
				return r.font, r.err
			}
		},
	}
}

func resolve(name string, style xfont.Style, weight xfont.Weight, size float64) fontPlusErr {
	registry := fontregistry.GlobalRegistry()
	key := fontregistry.NormalizeFontname(filepath.Base(name), style, weight)
	if _, ok := registry.Font(key); ok {
		t, err := registry.TypeCase(key, size)
		return fontPlusErr{font: t, err: err}
	}
	var f *font.ScalableFont
	var err error
	if isFile(name) {
		tracer().Debugf("%s is a font file", name)
		if f, err = font.LoadOpenTypeFont(name); err != nil {
			return fontPlusErr{err: err}
		}
	}
	if f == nil {
		if fpath, e := findfont.Find(name); e == nil && fpath != "" {
			tracer().Debugf("%s is a system font at %s", name, fpath)
			f, err = font.LoadOpenTypeFont(fpath)
		}
	}
	if f == nil {
		if fpath := matchSystemFont(name, style, weight); fpath != "" {
			tracer().Debugf("system font %s matches %s", fpath, name)
			f, err = font.LoadOpenTypeFont(fpath)
		}
	}
	if f == nil {
		tracer().Infof("font %s not found", name)
		t, e := registry.TypeCase("fallback", size)
		if err == nil {
			err = NotFound(name)
		}
		if t == nil {
			return fontPlusErr{err: e}
		}
		return fontPlusErr{font: t, err: err}
	}
	if f.Fontname == "" {
		f.Fontname = name
	}
	registry.StoreFont(key, f)
	t, err := registry.TypeCase(key, size)
	return fontPlusErr{font: t, err: err}
}

func isFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".ttf" && ext != ".otf" {
		return false
	}
	fi, err := os.Stat(name)
	return err == nil && !fi.IsDir()
}

func matchSystemFont(name string, style xfont.Style, weight xfont.Weight) string {
	for _, fpath := range findfont.List() {
		ext := strings.ToLower(filepath.Ext(fpath))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		if fontregistry.Matches(fpath, name, style, weight) {
			return fpath
		}
	}
	return ""
}
