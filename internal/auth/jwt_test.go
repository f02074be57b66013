package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ts := TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "travelhub-test",
		Duration: time.Hour,
	}

	token, exp, err := ts.Sign("editor")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.User)
	assert.Equal(t, "travelhub-test", claims.Issuer)
}

func TestTokenWrongSecret(t *testing.T) {
	ts := TokenService{Secret: []byte("secret-a"), Issuer: "travelhub", Duration: time.Hour}
	other := TokenService{Secret: []byte("secret-b"), Issuer: "travelhub", Duration: time.Hour}

	token, _, err := ts.Sign("editor")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "travelhub", Duration: -time.Minute}

	token, _, err := ts.Sign("editor")
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}
