package path

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// HardenedKeyStart is the index of the first hardened child.
const HardenedKeyStart = hdkeychain.HardenedKeyStart

// DerivationPath is the data structure representing an HD path.
type DerivationPath []uint32

// ParseDerivationPath converts a derivation path in string format to a
// DerivationPath type.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	return parseDerivationPath(strPath, false)
}

func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	result := "m"
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		result = fmt.Sprintf("%s/%d", result, component)
		if hardened {
			result += "'"
		}
	}
	return result
}

func parseDerivationPath(
	strPath string, checkAbsolutePath bool,
) (DerivationPath, error) {
	if strPath == "" {
		return nil, ErrMissingDerivationPath
	}

	elems := strings.Split(strPath, "/")
	if containsEmptyString(elems) {
		return nil, ErrMalformedDerivationPath
	}
	if checkAbsolutePath {
		if elems[0] != "m" {
			return nil, ErrRequiredAbsoluteDerivationPath
		}
	}
	if len(elems) < 2 {
		return nil, ErrMalformedDerivationPath
	}
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}

	path := make(DerivationPath, 0)
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
		}

		// use big int for convertion
		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("invalid elem '%s' in path", elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			if value == 0 {
				return nil, fmt.Errorf("elem %v must be in range [0, %d]", bigval, max)
			}
			return nil, fmt.Errorf("elem %v must be in hardened range [0, %d]", bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}

// NewAccountPath returns the BIP-44 account path m/purpose'/coin_type'/account'.
func NewAccountPath(purpose, coinType, account uint32) DerivationPath {
	return DerivationPath{
		purpose + hdkeychain.HardenedKeyStart,
		coinType + hdkeychain.HardenedKeyStart,
		account + hdkeychain.HardenedKeyStart,
	}
}

// ParseHardenedDerivationPath parses an absolute path where every component
// is hardened. The "'" suffix may be omitted, components lacking it are
// hardened anyway.
func ParseHardenedDerivationPath(strPath string) (DerivationPath, error) {
	path, err := parseDerivationPath(strPath, true)
	if err != nil {
		return nil, err
	}
	for i, component := range path {
		if component < hdkeychain.HardenedKeyStart {
			path[i] = component + hdkeychain.HardenedKeyStart
		}
	}
	return path, nil
}

// KeyPath identifies a key of an hd account in the form account/chain/index.
type KeyPath struct {
	Account uint32
	Chain   uint32
	Index   uint32
}

// ParseKeyPath parses a key path in the form account/chain/index. Hardened
// components are not allowed.
func ParseKeyPath(keyPath string) (*KeyPath, error) {
	elems := strings.Split(keyPath, "/")
	if len(elems) != 3 {
		return nil, ErrMalformedKeyPath
	}

	values := make([]uint32, 0, len(elems))
	for _, elem := range elems {
		v, err := strconv.ParseUint(strings.TrimSpace(elem), 10, 31)
		if err != nil {
			return nil, ErrMalformedKeyPath
		}
		values = append(values, uint32(v))
	}
	return &KeyPath{values[0], values[1], values[2]}, nil
}

func (p KeyPath) String() string {
	return fmt.Sprintf("%d/%d/%d", p.Account, p.Chain, p.Index)
}
