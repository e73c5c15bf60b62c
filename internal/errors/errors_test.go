package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

func TestWrapPreservesCodeAndMeta(t *testing.T) {
	base := errors.NotFoundf("resolution %s not found", "abc").WithMeta("key", "abc")
	wrapped := errors.Wrap(base, "failed to load")

	assert.True(t, errors.IsNotFound(wrapped))
	assert.Equal(t, "abc", errors.GetMeta(wrapped)["key"])
	assert.Equal(t, "failed to load: resolution abc not found", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))

	// Meta on the wrapper does not leak into the cause
	wrapped.WithMeta("attempt", 2)
	assert.NotContains(t, base.Meta, "attempt")
}

func TestWrapForeignError(t *testing.T) {
	wrapped := errors.Wrap(stderrors.New("boom"), "resolve")
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(wrapped))

	coded := errors.WrapWithCode(stderrors.New("dial tcp"), errors.CodeUnavailable, "redis")
	assert.True(t, errors.IsUnavailable(coded))

	assert.Nil(t, errors.Wrap(nil, "nothing"))
	assert.Nil(t, errors.Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, errors.WrapWithCode(nil, errors.CodeInternal, "nothing"))
}

func TestIs(t *testing.T) {
	assert.True(t, errors.IsInvalidArgument(errors.InvalidArgument("select a target")))
	assert.True(t, errors.IsValidation(errors.Validationf("bad %s", "kind")))
	assert.True(t, errors.IsInternal(errors.Internalf("bad %s", "state")))
	assert.False(t, errors.IsNotFound(stderrors.New("not found")))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Nil(t, errors.GetMeta(stderrors.New("plain")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{err: nil, expected: 0},
		{err: errors.InvalidArgument("x"), expected: 2},
		{err: errors.Validation("x"), expected: 2},
		{err: errors.NotFound("x"), expected: 3},
		{err: errors.Unavailable("x"), expected: 4},
		{err: errors.Internal("x"), expected: 1},
		{err: stderrors.New("x"), expected: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, errors.ExitCode(tt.err))
	}
}

func TestField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	logger.Warn("coded", errors.Field(errors.NotFound("missing").WithMeta("key", "abc")))
	logger.Warn("plain", errors.Field(stderrors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)

	coded, ok := entries[0].ContextMap()["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "not_found", coded["code"])
	assert.Equal(t, "abc", coded["key"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
