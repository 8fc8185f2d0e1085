package service

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blowfish"
)

// BlowfishCipherService implements ports.CipherService using Blowfish in ECB
// mode with PKCS#7 padding and uppercase hex transport encoding. ECB without
// an IV is mandated by the gateway protocol.
type BlowfishCipherService struct{}

// NewBlowfishCipherService creates a new Blowfish-ECB cipher service.
func NewBlowfishCipherService() *BlowfishCipherService {
	return &BlowfishCipherService{}
}

// Encrypt pads plaintext to the 8-byte block size, encrypts each block
// independently and hex-encodes the result. The second return value is the
// unpadded plaintext length, transmitted separately as the Len parameter.
func (s *BlowfishCipherService) Encrypt(key []byte, plaintext string) (string, int, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return "", 0, fmt.Errorf("creating blowfish cipher: %w", err)
	}

	padded := pad([]byte(plaintext), blowfish.BlockSize)
	encrypted := make([]byte, len(padded))
	for i := 0; i < len(padded); i += blowfish.BlockSize {
		block.Encrypt(encrypted[i:i+blowfish.BlockSize], padded[i:i+blowfish.BlockSize])
	}

	return strings.ToUpper(hex.EncodeToString(encrypted)), len(plaintext), nil
}

// Decrypt hex-decodes and decrypts a ciphertext, then strips padding.
// Malformed padding does not fail: the gateway is known to send
// non-conformant padding, in which case trailing whitespace is stripped
// instead. Only structurally invalid input (bad hex, wrong block length)
// is an error.
func (s *BlowfishCipherService) Decrypt(key []byte, cipherHex string) (string, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating blowfish cipher: %w", err)
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%blowfish.BlockSize != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}

	decrypted := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += blowfish.BlockSize {
		block.Decrypt(decrypted[i:i+blowfish.BlockSize], ciphertext[i:i+blowfish.BlockSize])
	}

	return string(unpad(decrypted, blowfish.BlockSize)), nil
}

// pad applies PKCS#7 padding up to blockSize.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding, falling back to trimming trailing whitespace
// when the padding bytes are inconsistent.
func unpad(data []byte, blockSize int) []byte {
	n := int(data[len(data)-1])
	if n >= 1 && n <= blockSize && n <= len(data) {
		if bytes.Equal(data[len(data)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
			return data[:len(data)-n]
		}
	}
	return bytes.TrimRight(data, " \t\n\v\f\r")
}
