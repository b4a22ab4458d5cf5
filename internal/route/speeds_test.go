package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSpeed(t *testing.T) {
	tests := []struct {
		arg  string
		want float64
	}{
		{"walking", 1.4},
		{"Running", 2.5},
		{"BIKING", 7.0},
		{" walking ", 1.4},
		{"2.7", 2.7},
		{"15", 15.0},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ResolveSpeed(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSpeed_Unknown(t *testing.T) {
	_, err := ResolveSpeed("teleport")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "teleport")
}
