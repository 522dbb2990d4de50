package walletcrypto

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Sha256 returns the single SHA-256 digest of data.
func Sha256(data []byte) []byte {
	return chainhash.HashB(data)
}

// HashNTimes applies SHA-256 to data exactly iterations times. Non positive
// values are treated as a single round.
func HashNTimes(iterations int, data []byte) []byte {
	last := Sha256(data)
	for i := 1; i < iterations; i++ {
		last = Sha256(last)
	}
	return last
}
