package walletcrypto

import (
	"fmt"
)

var (
	ErrNullPlainText             = fmt.Errorf("plaintext must not be null")
	ErrNullCypherText            = fmt.Errorf("cyphertext must not be null")
	ErrNullPassphrase            = fmt.Errorf("passphrase must not be null")
	ErrInvalidIterations         = fmt.Errorf("pbkdf2 iterations must be a positive number")
	ErrDecryption                = fmt.Errorf("decryption failed")
	ErrMalformedPayload          = fmt.Errorf("malformed wallet payload")
	ErrUnsupportedPayloadVersion = fmt.Errorf("unsupported wallet payload version")
)
