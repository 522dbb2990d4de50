package walletcrypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes = 16
	keyBytes  = 32
)

// EncryptOpts is the struct given to Encrypt method.
type EncryptOpts struct {
	PlainText  string
	Passphrase string
	Iterations int
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	if o.Iterations <= 0 {
		return ErrInvalidIterations
	}
	return nil
}

// Encrypt encrypts (with AES-256-CBC) a plaintext with a key stretched from
// the passphrase with PBKDF2-HMAC-SHA1. The random 16 bytes salt is also used
// as IV and is prepended to the cyphertext. The result is base64 encoded.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	iv := make([]byte, saltBytes)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	key := DeriveKey([]byte(opts.Passphrase), iv, opts.Iterations)

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded, err := iso10126Pad([]byte(opts.PlainText), blockCipher.BlockSize())
	if err != nil {
		return "", err
	}
	cyphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(blockCipher, iv).CryptBlocks(cyphertext, padded)

	return base64.StdEncoding.EncodeToString(append(iv, cyphertext...)), nil
}

// DecryptOpts is the struct given to Decrypt method.
type DecryptOpts struct {
	CypherText string
	Passphrase string
	Iterations int
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	if o.Iterations <= 0 {
		return ErrInvalidIterations
	}
	return nil
}

// Decrypt reverts Encrypt. Any malformed input, as well as a wrong
// passphrase detected by an invalid padding or a non UTF-8 plaintext, results
// in an ErrDecryption error.
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(opts.CypherText)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 cyphertext", ErrDecryption)
	}
	if len(data) < saltBytes+aes.BlockSize ||
		(len(data)-saltBytes)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid cyphertext length", ErrDecryption)
	}

	iv, cyphertext := data[:saltBytes], data[saltBytes:]
	key := DeriveKey([]byte(opts.Passphrase), iv, opts.Iterations)

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	plaintext := make([]byte, len(cyphertext))
	cipher.NewCBCDecrypter(blockCipher, iv).CryptBlocks(plaintext, cyphertext)

	plaintext, err = iso10126Unpad(plaintext, blockCipher.BlockSize())
	if err != nil {
		return "", err
	}
	if len(plaintext) == 0 || !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: invalid plaintext", ErrDecryption)
	}
	return string(plaintext), nil
}

// DeriveKey stretches the passphrase into a 32 bytes AES key.
func DeriveKey(passphrase, salt []byte, iterations int) []byte {
	return pbkdf2.Key(passphrase, salt, iterations, keyBytes, sha1.New)
}

// EncryptSecPass encrypts a secret value of a wallet with its second
// password. The passphrase is the concatenation of the wallet shared key and
// the second password.
func EncryptSecPass(
	sharedKey string, iterations int, password, message string,
) (string, error) {
	return Encrypt(EncryptOpts{
		PlainText:  message,
		Passphrase: sharedKey + password,
		Iterations: iterations,
	})
}

// DecryptSecPass reverts EncryptSecPass.
func DecryptSecPass(
	sharedKey string, iterations int, password, cypherText string,
) (string, error) {
	return Decrypt(DecryptOpts{
		CypherText: cypherText,
		Passphrase: sharedKey + password,
		Iterations: iterations,
	})
}

// ISO 10126: random filler, last byte holds the padding length.
func iso10126Pad(data []byte, blockSize int) ([]byte, error) {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	if _, err := rand.Read(padding[:padLen-1]); err != nil {
		return nil, err
	}
	padding[padLen-1] = byte(padLen)
	return append(bytes.Clone(data), padding...), nil
}

func iso10126Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrDecryption)
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
	}
	return data[:len(data)-padLen], nil
}
