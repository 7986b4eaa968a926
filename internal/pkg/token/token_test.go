package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeVerifier_LengthAndUniqueness(t *testing.T) {
	a, err := NewCodeVerifier()
	require.NoError(t, err)
	b, err := NewCodeVerifier()
	require.NoError(t, err)
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}

func TestChallenge_KnownVector(t *testing.T) {
	// base64url(sha256(verifier)), no padding.
	assert.Equal(t, "ehtI7p9IMkyeN6qzsoetvP1NWHlGsg1KGq-s7K1rXMs", Challenge("dBjftJeZ4CVP-mB92K9uhbUJU1p1r_wW1gFWFOEjXk"))
}
