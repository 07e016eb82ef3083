/*
Package parameters holds the tuning parameters of kerning estimation.

Parameters are kept in a register set, indexed by an enumerated key. They are
initialized with defaults and may be loaded from any schuko.Configuration,
using keys prefixed with "autokern.", e.g.

    autokern.fontsize:  100
    autokern.strategy:  calibrated

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'autokern.config'.
func tracer() tracing.Trace {
	return tracing.Select("autokern.config")
}

// KerningParameter is a key into the parameter registers.
type KerningParameter int

const (
	none KerningParameter = iota
	P_FONTSIZE            // pixels per em
	P_PADDING             // horizontal bitmap margin in pixels, 0 = auto
	P_MAXKERN             // search range in pixels, 0 = auto
	P_KERNSTEP            // search step in pixels
	P_EPSILON             // overlap energy considered "no overlap"
	P_BLURFACTOR          // default sigma relative to bitmap width
	P_STRATEGY            // name of the kern selection strategy
	P_TUNINGCHARS         // characters used for calibration
	P_CHARSET             // characters to build a kerning table for
	P_WORKERS             // number of concurrent pair computations
	P_MAXITERATIONS       // ceiling for calibration iterations
	P_OMITZERO            // omit zero kerns from tables
	P_STOPPER
)

var parameterNames = [...]string{
	"none", "fontsize", "padding", "maxkern", "kernstep", "epsilon", "blurfactor",
	"strategy", "tuningchars", "charset", "workers", "maxiterations", "omitzero",
}

func (p KerningParameter) String() string {
	if p <= none || p >= P_STOPPER {
		return fmt.Sprintf("KerningParameter(%d)", int(p))
	}
	return parameterNames[p]
}

// Key returns the configuration key for p, e.g. "autokern.fontsize".
func (p KerningParameter) Key() string {
	return "autokern." + p.String()
}

// Registers holds a value for every kerning parameter.
type Registers struct {
	base [P_STOPPER]interface{}
}

// NewRegisters creates a register set filled with defaults.
func NewRegisters() *Registers {
	regs := &Registers{}
	initParameters(&regs.base)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_FONTSIZE] = 100.0              // float64
	p[P_PADDING] = 0                   // int, 0 = round(0.25 × font size)
	p[P_MAXKERN] = 0.0                 // float64, 0 = round(0.3 × font size)
	p[P_KERNSTEP] = 1.0                // float64
	p[P_EPSILON] = 0.5                 // float64
	p[P_BLURFACTOR] = 0.05             // float64
	p[P_STRATEGY] = "conservative"     // string
	p[P_TUNINGCHARS] = "lno"           // string
	p[P_CHARSET] = "AVTWYLPFakeovwy.," // string
	p[P_WORKERS] = 1                   // int
	p[P_MAXITERATIONS] = 1000          // int
	p[P_OMITZERO] = false              // bool
}

// FromConfig creates a register set with defaults, overridden by every
// parameter set in conf.
func FromConfig(conf schuko.Configuration) (*Registers, error) {
	regs := NewRegisters()
	if conf == nil {
		return regs, nil
	}
	for key := P_FONTSIZE; key < P_STOPPER; key++ {
		if !conf.IsSet(key.Key()) {
			continue
		}
		var err error
		switch regs.base[key].(type) {
		case int:
			regs.base[key] = conf.GetInt(key.Key())
		case bool:
			regs.base[key] = conf.GetBool(key.Key())
		case float64:
			var f float64
			s := strings.TrimSpace(conf.GetString(key.Key()))
			if f, err = strconv.ParseFloat(s, 64); err == nil {
				regs.base[key] = f
			}
		default:
			regs.base[key] = conf.GetString(key.Key())
		}
		if err != nil {
			return regs, core.WrapError(err, core.EINVALID,
				"configuration value for %s is not a number", key.Key())
		}
		tracer().Debugf("config %s = %v", key.Key(), regs.base[key])
	}
	return regs, regs.Validate()
}

// Validate checks parameter values for plausibility.
func (regs *Registers) Validate() error {
	if regs.F(P_FONTSIZE) < 4 {
		return core.Error(core.EINVALID, "font size must be at least 4 pixels, is %g", regs.F(P_FONTSIZE))
	}
	if regs.F(P_KERNSTEP) <= 0 {
		return core.Error(core.EINVALID, "kern step must be positive, is %g", regs.F(P_KERNSTEP))
	}
	if regs.F(P_MAXKERN) < 0 || regs.F(P_EPSILON) < 0 || regs.F(P_BLURFACTOR) < 0 {
		return core.Error(core.EINVALID, "max-kern, epsilon and blur factor must not be negative")
	}
	if regs.N(P_PADDING) < 0 {
		return core.Error(core.EINVALID, "padding must not be negative")
	}
	if len(regs.S(P_TUNINGCHARS)) == 0 {
		return core.Error(core.EINVALID, "calibration needs at least one tuning character")
	}
	return nil
}

// Push sets a parameter value. The value has to be of the parameter's type.
func (regs *Registers) Push(key KerningParameter, value interface{}) {
	if key <= none || key >= P_STOPPER {
		panic("parameter key outside range of kerning parameters")
	}
	regs.base[key] = value
}

// Get returns the value of a parameter.
func (regs *Registers) Get(key KerningParameter) interface{} {
	if key <= none || key >= P_STOPPER {
		panic("parameter key outside range of kerning parameters")
	}
	return regs.base[key]
}

// S returns a string parameter.
func (regs *Registers) S(key KerningParameter) string {
	return regs.Get(key).(string)
}

// N returns an integer parameter.
func (regs *Registers) N(key KerningParameter) int {
	return regs.Get(key).(int)
}

// F returns a float parameter.
func (regs *Registers) F(key KerningParameter) float64 {
	return regs.Get(key).(float64)
}

// B returns a boolean parameter.
func (regs *Registers) B(key KerningParameter) bool {
	return regs.Get(key).(bool)
}

// --- Derived values --------------------------------------------------------

// Padding returns the horizontal bitmap margin in pixels. If unset, it is
// derived from the font size.
func (regs *Registers) Padding() int {
	if p := regs.N(P_PADDING); p > 0 {
		return p
	}
	return int(math.Round(0.25 * regs.F(P_FONTSIZE)))
}

// MaxKern returns the kern search range in pixels. If unset, it is derived
// from the font size.
func (regs *Registers) MaxKern() float64 {
	if m := regs.F(P_MAXKERN); m > 0 {
		return m
	}
	return math.Round(0.3 * regs.F(P_FONTSIZE))
}

// Workers returns the number of concurrent pair computations, at least 1.
func (regs *Registers) Workers() int {
	if w := regs.N(P_WORKERS); w > 1 {
		return w
	}
	return 1
}
