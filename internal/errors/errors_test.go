package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatting(t *testing.T) {
	err := New(ErrConflictNotFound, "conflict missing")
	assert.Equal(t, "[CONFLICT_NOT_FOUND] conflict missing", err.Error())

	wrapped := Wrap(ErrStrategyFailed, "strategy blew up", stderrors.New("boom"))
	assert.Equal(t, "[STRATEGY_FAILED] strategy blew up: boom", wrapped.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrUnknownStrategy, "unknown resolution strategy %q", "majority_vote")
	assert.Equal(t, `[UNKNOWN_STRATEGY] unknown resolution strategy "majority_vote"`, err.Error())
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := Wrap(ErrInternal, "outer", inner)
	assert.True(t, stderrors.Is(err, inner))
}

func TestIs(t *testing.T) {
	err := New(ErrManualRequired, "needs a reviewer")
	assert.True(t, Is(err, ErrManualRequired))
	assert.False(t, Is(err, ErrStrategyFailed))
	assert.False(t, Is(stderrors.New("plain"), ErrManualRequired))
	assert.False(t, Is(nil, ErrManualRequired))
}
