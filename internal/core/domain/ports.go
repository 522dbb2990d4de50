package domain

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Credentials are the second password credentials required to reach the
// seed of a double encrypted wallet.
type Credentials struct {
	Iterations     int
	SecondPassword fn.Option[string]
}

// SecurityModule defines the capabilities a wallet needs to work with its
// secrets. Implementations hold the session secrets (shared key, main
// password) so that the wallet never handles them directly.
type SecurityModule interface {
	// ComputeSecondPasswordHash returns the hex encoded hash of the given
	// second password, salted with the session shared key.
	ComputeSecondPasswordHash(iterations int, password string) string
	// EncryptWithSecondPassword encrypts plaintext with the second password.
	EncryptWithSecondPassword(
		ctx context.Context, iterations int, password, plaintext string,
	) (string, error)
	// DecryptWithSecondPassword reverts EncryptWithSecondPassword.
	DecryptWithSecondPassword(
		ctx context.Context, iterations int, password, cypherText string,
	) (string, error)
	// DeriveBIP32Key returns the base58 extended private key at the given
	// path of the tree generated by the seed of the default hd wallet.
	DeriveBIP32Key(
		ctx context.Context, creds Credentials, net *chaincfg.Params,
		path string,
	) (string, error)
	// WithWallet returns a copy of the module that reads the seed from the
	// given wallet instead of the current one of the session.
	WithWallet(w *Wallet) SecurityModule
}

// CipherOp is either SecurityModule.EncryptWithSecondPassword or
// SecurityModule.DecryptWithSecondPassword.
type CipherOp func(
	ctx context.Context, iterations int, password, value string,
) (string, error)

// SecretTransform is applied to every secret leaf of a wallet by
// TraverseSecrets.
type SecretTransform func(ctx context.Context, value string) (string, error)
