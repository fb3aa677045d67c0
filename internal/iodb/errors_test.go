package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionError(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "gnidx", "postgres",
		originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 8)
	assert.Equal(t, "gnidx", gnErr.Vars[6])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestErrorCodes(t *testing.T) {
	originalErr := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		wrap bool
	}{
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError, false},
		{
			"table check",
			TableExistsCheckError("name_entries", originalErr),
			errcode.DBTableCheckError,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			if tt.wrap {
				assert.ErrorIs(t, gnErr.Err, originalErr)
			}
		})
	}
}
