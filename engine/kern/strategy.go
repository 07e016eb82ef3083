package kern

import (
	"strings"

	"github.com/npillmayer/autokern/core"
)

// Strategy selects a kern from sampled overlap energies.
type Strategy int

// Strategies for kern selection. Conservative is the default.
const (
	Conservative Strategy = iota
	Calibrated
	Midpoint
	Argmax
	NoOverlap
	stopper
)

var strategyNames = [...]string{"conservative", "calibrated", "midpoint", "argmax", "no-overlap"}

func (s Strategy) String() string {
	if s < Conservative || s >= stopper {
		return "unknown"
	}
	return strategyNames[s]
}

// Strategies returns the names of all strategies.
func Strategies() []string {
	return strategyNames[:]
}

// ParseStrategy returns the strategy with a given name. Names are matched
// case-insensitively, dashes and underscores are optional. The empty string
// selects Conservative.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "", "_", "").Replace(n)
	if n == "" {
		return Conservative, nil
	}
	for i, sname := range strategyNames {
		if strings.ReplaceAll(sname, "-", "") == n {
			return Strategy(i), nil
		}
	}
	return Conservative, core.Error(core.EINVALID, "unknown kerning strategy %q, valid are %s",
		name, strings.Join(strategyNames[:], ", "))
}
