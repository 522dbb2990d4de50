package ethereum_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/custody/pkg/wallet/ethereum"
)

func TestToChecksumAddress(t *testing.T) {
	t.Parallel()

	addresses := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}

	for _, address := range addresses {
		t.Run(address, func(t *testing.T) {
			checksummed, err := ethereum.ToChecksumAddress(strings.ToLower(address))
			require.NoError(t, err)
			require.Equal(t, address, checksummed)

			checksummed, err = ethereum.ToChecksumAddress(
				strings.ToUpper(strings.TrimPrefix(address, "0x")),
			)
			require.NoError(t, err)
			require.Equal(t, address, checksummed)
		})
	}

	for _, address := range []string{"", "0x", "0x5aAeb6053F", "0xzzAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"} {
		_, err := ethereum.ToChecksumAddress(address)
		require.ErrorIs(t, err, ethereum.ErrInvalidAddress)
	}
}

func TestAddressFromPubKey(t *testing.T) {
	t.Parallel()

	buf, err := hex.DecodeString(
		"1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727",
	)
	require.NoError(t, err)
	key, _ := btcec.PrivKeyFromBytes(buf)

	require.Equal(
		t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		ethereum.AddressFromPubKey(key.PubKey()),
	)
	require.Equal(
		t, "0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727",
		ethereum.PrivateKeyHex(key),
	)
}
