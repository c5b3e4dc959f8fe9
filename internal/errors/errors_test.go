package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCodeAndChain(t *testing.T) {
	sentinel := errors.New("boom")
	inner := WithCode(CodeUnanalyzable, sentinel)
	outer := Wrap(inner, "family P1")

	assert.Equal(t, CodeUnanalyzable, GetCode(outer))
	assert.True(t, errors.Is(outer, sentinel))
	assert.Equal(t, "family P1: boom", outer.Error())
}

func TestWrap_PlainError(t *testing.T) {
	err := Wrapf(fmt.Errorf("disk"), "reading %s", "obs.tsv")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "reading obs.tsv: disk", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, WithCode(CodeIOError, nil))
}

func TestWithCode_KeepsMessage(t *testing.T) {
	plain := WithCode(CodeUnanalyzable, errors.New("family P1 is unanalyzable"))
	assert.Equal(t, "family P1 is unanalyzable", plain.Error())

	recoded := WithCode(CodeValidationError, InvalidInput("bad row"))
	assert.Equal(t, CodeValidationError, GetCode(recoded))
	assert.Equal(t, "bad row", recoded.Error())
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(errors.New("x")))
	assert.Equal(t, CodeConfigInvalid, GetCode(ConfigInvalid("bad alpha")))
	assert.Equal(t, CodeIOError, GetCode(IOError("open", errors.New("missing"))))
}
