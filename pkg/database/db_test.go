package database

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	plain := []byte(`{"contacts":[]}`)

	sealed, err := Encrypt(plain, "correct horse")
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, plain))
	assert.Len(t, sealed, saltSize+nonceSize+len(plain)+16)

	opened, err := Decrypt(sealed, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, plain, opened)

	_, err = Decrypt(sealed, "battery staple")
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = Decrypt(sealed[:10], "correct horse")
	assert.ErrorIs(t, err, ErrTooShort)
}
