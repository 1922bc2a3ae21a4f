package database

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12 // AES-GCM standard nonce
	keySize   = 32 // AES-256

	// Argon2id parameters.
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
)

var (
	// ErrDecrypt is returned when the password does not open the file.
	ErrDecrypt = errors.New("could not decrypt data, wrong password or corrupt file")
	// ErrTooShort means the file cannot even hold salt and nonce.
	ErrTooShort = errors.New("encrypted data too short")
)

type Serialiser interface {
	Serialise() ([]byte, error)
	DeSerialise([]byte) error
}

// DBWriter persists Serialisers to disk. With a non-empty Password the data
// is encrypted, file format: salt(16) || nonce(12) || ciphertext.
type DBWriter struct {
	Password string
}

func (d *DBWriter) WriteToDB(path string, dataStruct Serialiser) error {
	data, err := dataStruct.Serialise()
	if err != nil {
		logging.L.Err(err).Msg("")
		return err
	}

	if d.Password != "" {
		data, err = Encrypt(data, d.Password)
		if err != nil {
			logging.L.Err(err).Msg("")
			return err
		}
	}

	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	// write next to the target and rename so a crash never leaves half a wallet
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0600); err != nil {
		logging.L.Err(err).Msg("")
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		logging.L.Err(err).Msg("")
		return err
	}

	return nil
}

func (d *DBWriter) ReadFromDB(path string, dataStruct Serialiser) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.L.Err(err).Msg("")
		return err
	}

	if d.Password != "" {
		data, err = Decrypt(data, d.Password)
		if err != nil {
			return err
		}
	}

	err = dataStruct.DeSerialise(data)
	if err != nil {
		logging.L.Err(err).Msg("")
		return err
	}

	return nil
}

// Encrypt seals plaintext with a key derived from password.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, saltSize+nonceSize+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt opens data produced by Encrypt.
func Decrypt(data []byte, password string) ([]byte, error) {
	if len(data) < saltSize+nonceSize {
		return nil, ErrTooShort
	}

	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keySize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
