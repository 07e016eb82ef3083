package parameters

import (
	"testing"

	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	regs := NewRegisters()
	require.NoError(t, regs.Validate())
	assert.Equal(t, 100.0, regs.F(P_FONTSIZE))
	assert.Equal(t, 25, regs.Padding())
	assert.Equal(t, 30.0, regs.MaxKern())
	assert.Equal(t, "conservative", regs.S(P_STRATEGY))
	assert.Equal(t, 1, regs.Workers())
	assert.Equal(t, "autokern.maxkern", P_MAXKERN.Key())
}

func TestFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.config")
	defer teardown()
	//
	conf := testconfig.Conf{
		"autokern.fontsize": "64",
		"autokern.padding":  12,
		"autokern.strategy": "midpoint",
		"autokern.omitzero": true,
		"autokern.workers":  4,
	}
	regs, err := FromConfig(conf)
	require.NoError(t, err)
	assert.Equal(t, 64.0, regs.F(P_FONTSIZE))
	assert.Equal(t, 12, regs.Padding())
	assert.Equal(t, 19.0, regs.MaxKern())
	assert.Equal(t, "midpoint", regs.S(P_STRATEGY))
	assert.True(t, regs.B(P_OMITZERO))
	assert.Equal(t, 4, regs.Workers())
}

func TestInvalidConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "autokern.config")
	defer teardown()
	//
	_, err := FromConfig(testconfig.Conf{"autokern.epsilon": "tiny"})
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = FromConfig(testconfig.Conf{"autokern.kernstep": "0"})
	assert.Equal(t, core.EINVALID, core.Code(err))
}
