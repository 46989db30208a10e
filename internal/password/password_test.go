package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/orgspace-auth/internal/password"
)

func TestHashVerify(t *testing.T) {
	digest, err := password.Hash("testPassword")
	require.NoError(t, err)
	require.NotEqual(t, "testPassword", digest)

	require.True(t, password.Verify("testPassword", digest))
	require.False(t, password.Verify("wrongPassword", digest))
}

func TestHashSaltsPerCall(t *testing.T) {
	first, err := password.Hash("same input")
	require.NoError(t, err)
	second, err := password.Hash("same input")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.True(t, password.Verify("same input", first))
	require.True(t, password.Verify("same input", second))
}

func TestVerifyMalformedDigest(t *testing.T) {
	require.False(t, password.Verify("anything", ""))
	require.False(t, password.Verify("anything", "not-a-bcrypt-digest"))
}
