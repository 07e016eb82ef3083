package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
	err := Error(EMISSING, "font %q not found", "Garamond")
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, `font "Garamond" not found`, UserMessage(err))
}

func TestWrappedErrorChain(t *testing.T) {
	base := errors.New("file is truncated")
	err := WrapError(base, EINVALID, "cannot parse font %s", "x.ttf")
	assert.True(t, errors.Is(err, base))
	outer := fmt.Errorf("loading: %w", err)
	assert.Equal(t, EINVALID, Code(outer), "code should be found through wrapping")
	assert.Equal(t, "cannot parse font x.ttf", UserMessage(outer))
	assert.Equal(t, "[124] no convergence", WrapError(nil, ENOCONVERGE, "diverged").Error())
	assert.Equal(t, "internal error", UserMessage(errors.New("plain")))
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "undefined error", errorText(99))
}
