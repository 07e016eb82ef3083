package fontregistry

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding information about loaded fonts and the
// typecases derived from them.
type Registry struct {
	sync.Mutex
	fonts     map[string]*font.ScalableFont
	typecases map[string]*font.TypeCase
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts and typecases.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:     make(map[string]*font.ScalableFont),
		typecases: make(map[string]*font.TypeCase),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// Font returns the font stored under a normalized name, if any.
func (fr *Registry) Font(normalizedName string) (*font.ScalableFont, bool) {
	fr.Lock()
	defer fr.Unlock()
	f, ok := fr.fonts[normalizedName]
	return f, ok
}

// TypeCase returns a typecase for a font at a given size in pixels per em.
// If a suitable typecase has already been cached, TypeCase will return the cached
// typecase. If a suitable font has previously been stored under key
// `normalizedName`, a typecase will be derived from this font.
//
// If no typecase can be produced, TypeCase will derive one from the
// fallback font and return it, together with an error.
func (fr *Registry) TypeCase(normalizedName string, size float64) (*font.TypeCase, error) {
	tracer().Debugf("registry searches for font %s at %.2f", normalizedName, size)
	tname := appendSize(normalizedName, size)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.typecases[tname]; ok {
		tracer().Debugf("registry found typecase %s", tname)
		return t, nil
	}
	if f, ok := fr.fonts[normalizedName]; ok {
		t, err := f.PrepareCase(size)
		if err != nil {
			return nil, err
		}
		tracer().Infof("font registry has font %s, caches at %.2f", normalizedName, size)
		fr.typecases[tname] = t
		return t, nil
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	err := core.Error(core.EMISSING, "font %s not found in registry", normalizedName)
	//
	// store typecase from fallback font, if not present yet, and return it
	fname := "fallback"
	tname = appendSize(fname, size)
	if t, ok := fr.typecases[tname]; ok {
		return t, err
	}
	f := font.FallbackFont()
	t, e := f.PrepareCase(size)
	if e != nil {
		return nil, e
	}
	tracer().Infof("font registry caches fallback font at %.2f", size)
	fr.fonts[fname] = f
	fr.typecases[tname] = t
	return t, err
}

// LogFontList is a helper function to dump the list of known fonts and typecases
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		tracer().Infof("typecase [%s] = %v", k, v.ScalableFontParent().Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// NormalizeFontname creates a registry key from a font name, a style and
// a weight.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = font.NormalizeFontname(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold:
		fname += "-bold"
	}
	return fname
}

func appendSize(fname string, size float64) string {
	return fmt.Sprintf("%s-%.2f", fname, size)
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight. Spaces in pattern are ignored, as font file
// names usually do not contain them.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	pattern = strings.ToLower(pattern)
	if !strings.Contains(basename, pattern) &&
		!strings.Contains(basename, strings.ReplaceAll(pattern, " ", "")) {
		return false
	}
	tracer().Debugf("basename of font = %s", basename)
	s, w := GuessStyleAndWeight(basename)
	return s == style && w == weight
}
