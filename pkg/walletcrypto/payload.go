package walletcrypto

import (
	"encoding/json"
	"fmt"
)

const (
	// PayloadVersion is the version tag of the wallet payloads produced by
	// EncryptWallet.
	PayloadVersion = 3
	// DefaultPbkdf2Iterations is used for payloads that do not carry their
	// own iteration count.
	DefaultPbkdf2Iterations = 5000
)

// Payload is the at-rest envelope of a wallet document encrypted with the
// main password.
type Payload struct {
	Pbkdf2Iterations int    `json:"pbkdf2_iterations"`
	Version          int    `json:"version"`
	Payload          string `json:"payload"`
}

// ParsePayload decodes the JSON envelope without decrypting its content.
func ParsePayload(raw string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	if len(p.Payload) <= 0 {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformedPayload)
	}
	if p.Version != 2 && p.Version != PayloadVersion {
		return nil, ErrUnsupportedPayloadVersion
	}
	if p.Pbkdf2Iterations <= 0 {
		p.Pbkdf2Iterations = DefaultPbkdf2Iterations
	}
	return &p, nil
}

// String returns the JSON serialization of the envelope.
func (p Payload) String() string {
	buf, _ := json.Marshal(p)
	return string(buf)
}

// EncryptWallet encrypts the serialized wallet document with the given
// password and wraps it into a versioned envelope.
func EncryptWallet(data, password string, iterations int) (*Payload, error) {
	cypherText, err := Encrypt(EncryptOpts{
		PlainText:  data,
		Passphrase: password,
		Iterations: iterations,
	})
	if err != nil {
		return nil, err
	}
	return &Payload{
		Pbkdf2Iterations: iterations,
		Version:          PayloadVersion,
		Payload:          cypherText,
	}, nil
}

// DecryptWallet reverts EncryptWallet and returns the serialized wallet
// document.
func DecryptWallet(p *Payload, password string) (string, error) {
	if p == nil {
		return "", ErrMalformedPayload
	}
	return Decrypt(DecryptOpts{
		CypherText: p.Payload,
		Passphrase: password,
		Iterations: p.Pbkdf2Iterations,
	})
}
