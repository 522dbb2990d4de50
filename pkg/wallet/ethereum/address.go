package ethereum

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/sha3"
)

const addressLen = 20

var ErrInvalidAddress = fmt.Errorf("address must be 20 bytes hex encoded")

// AddressFromPubKey returns the checksummed address of the given public key,
// made of the last 20 bytes of the Keccak-256 hash of the uncompressed key
// without its prefix byte.
func AddressFromPubKey(pubKey *btcec.PublicKey) string {
	hash := keccak256(pubKey.SerializeUncompressed()[1:])
	address, _ := ToChecksumAddress(hex.EncodeToString(hash[len(hash)-addressLen:]))
	return address
}

// ToChecksumAddress returns the EIP-55 mixed case encoding of the given hex
// address. The 0x prefix is optional.
func ToChecksumAddress(address string) (string, error) {
	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))
	if buf, err := hex.DecodeString(addr); err != nil || len(buf) != addressLen {
		return "", ErrInvalidAddress
	}

	hash := hex.EncodeToString(keccak256([]byte(addr)))
	checksummed := []byte(addr)
	for i, c := range checksummed {
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			checksummed[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(checksummed), nil
}

// PrivateKeyHex returns the 0x prefixed hex encoding of the given key.
func PrivateKeyHex(key *btcec.PrivateKey) string {
	return "0x" + hex.EncodeToString(key.Serialize())
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
