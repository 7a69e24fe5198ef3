package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrBadCipherKey = errors.New("pin encryption key must be exactly 32 bytes")
	ErrMalformedPin = errors.New("stored pin has an invalid format")
)

// PinCipher encrypts upload PINs reversibly so they can later be shown
// to the admin and compared against uploader input in plaintext. That
// rules out a one-way hash, which is why the encryption key must be
// guarded as strictly as a password hash would be.
//
// Stored format is hex(iv) + ":" + hex(ciphertext) with a fresh random
// IV per call, so encrypting the same PIN twice never yields the same
// output.
type PinCipher struct {
	block cipher.Block
}

func NewPinCipher(key []byte) (*PinCipher, error) {
	if len(key) != 32 {
		return nil, ErrBadCipherKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return &PinCipher{block: block}, nil
}

func (p *PinCipher) Encrypt(pin string) (string, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	plain := pkcs7Pad([]byte(pin), aes.BlockSize)
	ct := make([]byte, len(plain))
	cipher.NewCBCEncrypter(p.block, iv).CryptBlocks(ct, plain)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

func (p *PinCipher) Decrypt(stored string) (string, error) {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ErrMalformedPin
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformedPin
	}

	ct, err := hex.DecodeString(parts[1])
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrMalformedPin
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(p.block, iv).CryptBlocks(plain, ct)

	out, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", ErrMalformedPin
	}

	return string(out), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("invalid padded length")
	}

	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errors.New("invalid padding")
	}

	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("invalid padding")
		}
	}

	return b[:len(b)-n], nil
}
