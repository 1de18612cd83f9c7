package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCloneKeepsCodeAndStatus(t *testing.T) {
	err := Clone(ErrConflict, "announcement changed concurrently")
	require.Equal(t, "CONFLICT", err.Code)
	require.Equal(t, http.StatusConflict, err.Status)
	require.Equal(t, "announcement changed concurrently", err.Message)
	require.Equal(t, "conflict", ErrConflict.Message)

	require.Equal(t, "forbidden", Clone(ErrForbidden, "").Message)
	require.Nil(t, Clone(nil, "x"))
}

func TestIsMatchesWrappedCodes(t *testing.T) {
	err := fmt.Errorf("publish: %w", Clone(ErrNotFound, "announcement not found"))
	require.True(t, Is(err, ErrNotFound))
	require.False(t, Is(err, ErrConflict))
	require.False(t, Is(sql.ErrNoRows, ErrNotFound))
	require.False(t, Is(nil, ErrNotFound))
}

func TestStorageWrapsCause(t *testing.T) {
	err := Storage(sql.ErrConnDone, "failed to load announcement")
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.Equal(t, http.StatusInternalServerError, err.Status)
	require.Contains(t, err.Error(), "failed to load announcement: ")
}

func TestFromErrorHidesUntypedErrors(t *testing.T) {
	require.Nil(t, FromError(nil))

	typed := Clone(ErrTooLarge, "file exceeds 10 MiB")
	require.Same(t, typed, FromError(fmt.Errorf("upload: %w", typed)))

	generic := FromError(sql.ErrTxDone)
	require.Equal(t, ErrInternal.Code, generic.Code)
	require.Equal(t, ErrInternal.Message, generic.Message)
	require.ErrorIs(t, generic, sql.ErrTxDone)
}
