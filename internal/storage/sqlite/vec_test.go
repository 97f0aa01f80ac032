package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, 3e-7}

	blob, err := serializeVector(vec)
	require.NoError(t, err)
	assert.Len(t, blob, 16)

	got, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestDeserializeVector_InvalidLength(t *testing.T) {
	_, err := deserializeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
