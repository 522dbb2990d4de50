package mnemonic

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidEntropySize = fmt.Errorf("entropy size must be 128 or 256")
	ErrEntropyEncoding    = fmt.Errorf("invalid entropy for mnemonic encoding")
	ErrInvalidMnemonic    = fmt.Errorf("invalid mnemonic")
)

type NewMnemonicArgs struct {
	EntropySize uint32
}

func (a NewMnemonicArgs) validate() error {
	if a.EntropySize > 0 {
		if a.EntropySize != 128 && a.EntropySize != 256 {
			return ErrInvalidEntropySize
		}
	}
	return nil
}

// NewMnemonic returns a new mnemonic as a list of words:
//   - EntropySize: 256 -> 24-words mnemonic.
//   - EntropySize: 128 -> 12-words mnemonic.
func NewMnemonic(args NewMnemonicArgs) ([]string, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	if args.EntropySize == 0 {
		args.EntropySize = 256
	}

	entropy, err := bip39.NewEntropy(int(args.EntropySize))
	if err != nil {
		return nil, err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	return strings.Split(mnemonic, " "), nil
}

// EntropyToMnemonic encodes the given entropy into its BIP-39 english
// mnemonic.
func EntropyToMnemonic(entropy []byte) (string, error) {
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrEntropyEncoding, err)
	}
	return mnemonic, nil
}

// MnemonicToEntropy reverts EntropyToMnemonic, the checksum is verified.
func MnemonicToEntropy(mnemonic string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(normalize(mnemonic))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMnemonic, err)
	}
	return entropy, nil
}

// MnemonicToEntropyHex is like MnemonicToEntropy but returns the lowercase
// hex encoding of the entropy, the format used for the seed of hd wallets.
func MnemonicToEntropyHex(mnemonic string) (string, error) {
	entropy, err := MnemonicToEntropy(mnemonic)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(entropy), nil
}

// EntropyToSeed returns the 64 bytes BIP-39 seed of the mnemonic encoding
// the given entropy, with empty passphrase.
func EntropyToSeed(entropy []byte) ([]byte, error) {
	mnemonic, err := EntropyToMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	return bip39.NewSeed(mnemonic, ""), nil
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}
