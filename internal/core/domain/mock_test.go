package domain_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/mock"
	"github.com/vulpemventures/custody/internal/core/domain"
	path "github.com/vulpemventures/custody/pkg/wallet/derivation-path"
	"github.com/vulpemventures/custody/pkg/wallet/mnemonic"
	"github.com/vulpemventures/custody/pkg/walletcrypto"
)

// fakeSecurityModule uses reversible, human readable ciphers to make
// assertions on the wallet documents easy. Encryption of failOn fails.
type fakeSecurityModule struct {
	wallet *domain.Wallet
	failOn string
}

func (m fakeSecurityModule) ComputeSecondPasswordHash(
	iterations int, password string,
) string {
	return fmt.Sprintf("hash(%d,%s)", iterations, password)
}

func (m fakeSecurityModule) EncryptWithSecondPassword(
	_ context.Context, iterations int, password, plaintext string,
) (string, error) {
	if len(m.failOn) > 0 && plaintext == m.failOn {
		return "", fmt.Errorf("cipher failure")
	}
	return fmt.Sprintf("enc(%d,%s,%s)", iterations, password, plaintext), nil
}

func (m fakeSecurityModule) DecryptWithSecondPassword(
	_ context.Context, iterations int, password, cypherText string,
) (string, error) {
	prefix := fmt.Sprintf("enc(%d,%s,", iterations, password)
	if !strings.HasPrefix(cypherText, prefix) || !strings.HasSuffix(cypherText, ")") {
		return "", walletcrypto.ErrDecryption
	}
	return strings.TrimSuffix(strings.TrimPrefix(cypherText, prefix), ")"), nil
}

func (m fakeSecurityModule) DeriveBIP32Key(
	ctx context.Context, creds domain.Credentials, net *chaincfg.Params,
	strPath string,
) (string, error) {
	hdw, err := m.wallet.DefaultHDWallet()
	if err != nil {
		return "", err
	}
	seedHex := hdw.SeedHex
	if creds.SecondPassword.IsSome() {
		seedHex, err = m.DecryptWithSecondPassword(
			ctx, creds.Iterations, creds.SecondPassword.UnwrapOr(""), seedHex,
		)
		if err != nil {
			return "", err
		}
	}
	entropy, err := hex.DecodeString(seedHex)
	if err != nil {
		return "", err
	}
	seed, err := mnemonic.EntropyToSeed(entropy)
	if err != nil {
		return "", err
	}

	derivationPath, err := path.ParseDerivationPath(strPath)
	if err != nil {
		return "", err
	}
	key, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return "", err
	}
	for _, i := range derivationPath {
		if key, err = key.Derive(i); err != nil {
			return "", err
		}
	}
	return key.String(), nil
}

func (m fakeSecurityModule) WithWallet(w *domain.Wallet) domain.SecurityModule {
	m.wallet = w
	return m
}

// mockSecurityModule is used to assert on which capabilities are used.
type mockSecurityModule struct {
	mock.Mock
}

func (m *mockSecurityModule) ComputeSecondPasswordHash(
	iterations int, password string,
) string {
	args := m.Called(iterations, password)
	return args.String(0)
}

func (m *mockSecurityModule) EncryptWithSecondPassword(
	ctx context.Context, iterations int, password, plaintext string,
) (string, error) {
	args := m.Called(ctx, iterations, password, plaintext)
	if f, ok := args.Get(0).(func(
		context.Context, int, string, string,
	) (string, error)); ok {
		return f(ctx, iterations, password, plaintext)
	}
	return args.String(0), args.Error(1)
}

func (m *mockSecurityModule) DecryptWithSecondPassword(
	ctx context.Context, iterations int, password, cypherText string,
) (string, error) {
	args := m.Called(ctx, iterations, password, cypherText)
	if f, ok := args.Get(0).(func(
		context.Context, int, string, string,
	) (string, error)); ok {
		return f(ctx, iterations, password, cypherText)
	}
	return args.String(0), args.Error(1)
}

func (m *mockSecurityModule) DeriveBIP32Key(
	ctx context.Context, creds domain.Credentials, net *chaincfg.Params,
	strPath string,
) (string, error) {
	args := m.Called(ctx, creds, net, strPath)
	return args.String(0), args.Error(1)
}

func (m *mockSecurityModule) WithWallet(w *domain.Wallet) domain.SecurityModule {
	args := m.Called(w)
	return args.Get(0).(domain.SecurityModule)
}
