package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/pkg/walletcrypto"
)

func TestWalletJSON(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	w, err := w.SetAddressArchived(watchOnlyAddr, true)
	require.NoError(t, err)
	w, err = w.SetHDAddressLabel(0, 3, "rent")
	require.NoError(t, err)

	buf, err := json.Marshal(w)
	require.NoError(t, err)

	decoded := &domain.Wallet{}
	require.NoError(t, json.Unmarshal(buf, decoded))
	require.Equal(t, w, decoded)

	// The wire format is checked against a generic decoding.
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf, &doc))
	require.Equal(t, guid, doc["guid"])
	require.Equal(t, sharedKey, doc["sharedKey"])
	require.Equal(t, false, doc["double_encryption"])
	require.NotContains(t, doc, "dpasswordhash")
	require.Equal(t, "coffee", doc["tx_notes"].(map[string]interface{})["6fd7d948"])

	keys := doc["keys"].([]interface{})
	require.Len(t, keys, 2)
	for _, k := range keys {
		key := k.(map[string]interface{})
		switch key["addr"] {
		case legacyAddr:
			require.Equal(t, legacyPriv, key["priv"])
			require.Equal(t, float64(0), key["tag"])
			require.Equal(t, "imported", key["label"])
		case watchOnlyAddr:
			require.NotContains(t, key, "priv")
			require.Equal(t, float64(2), key["tag"])
		default:
			t.Fatalf("unexpected address %v", key["addr"])
		}
	}

	hdWallets := doc["hd_wallets"].([]interface{})
	require.Len(t, hdWallets, 1)
	hdw := hdWallets[0].(map[string]interface{})
	require.Equal(t, entropy, hdw["seed_hex"])
	account := hdw["accounts"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, accountXPub, account["xpub"])
	require.Equal(t, receiveXPub, account["cache"].(map[string]interface{})["receiveAccount"])
	labels := account["address_labels"].([]interface{})
	require.Len(t, labels, 1)
	require.Equal(t, "rent", labels[0].(map[string]interface{})["label"])
	require.Equal(t, float64(3), labels[0].(map[string]interface{})["index"])

	encrypted := newEncryptedTestWallet(t)
	buf, err = json.Marshal(encrypted)
	require.NoError(t, err)
	require.Contains(t, string(buf), `"dpasswordhash":"hash(5000,secret)"`)

	decoded = &domain.Wallet{}
	require.NoError(t, json.Unmarshal(buf, decoded))
	require.Equal(t, encrypted, decoded)
}

func TestWalletJSONInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		doc           string
		expectedError error
	}{
		{
			"not a json",
			`{"guid":`,
			domain.ErrMalformedWallet,
		},
		{
			"missing guid",
			`{"sharedKey":"key","keys":[]}`,
			domain.ErrMissingGuid,
		},
		{
			"missing shared key",
			`{"guid":"guid","keys":[]}`,
			domain.ErrMissingSharedKey,
		},
		{
			"flag without hash",
			`{"guid":"guid","sharedKey":"key","double_encryption":true,"keys":[]}`,
			domain.ErrMalformedWallet,
		},
		{
			"hash without flag",
			`{"guid":"guid","sharedKey":"key","dpasswordhash":"hash","keys":[]}`,
			domain.ErrMalformedWallet,
		},
		{
			"duplicated address",
			`{"guid":"guid","sharedKey":"key","keys":[{"addr":"a"},{"addr":"a"}]}`,
			domain.ErrMalformedWallet,
		},
		{
			"empty address",
			`{"guid":"guid","sharedKey":"key","keys":[{"addr":""}]}`,
			domain.ErrMalformedWallet,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p, err := walletcrypto.EncryptWallet(tt.doc, "main password", 10)
			require.NoError(t, err)

			_, err = domain.FromEncryptedPayload("main password", p.String())
			require.ErrorIs(t, err, tt.expectedError)
		})
	}

	w := &domain.Wallet{}
	err := json.Unmarshal([]byte(`{"guid":`), w)
	require.IsType(t, &json.SyntaxError{}, err)
}

func TestWalletJSONDefaults(t *testing.T) {
	t.Parallel()

	w := &domain.Wallet{}
	err := json.Unmarshal([]byte(`{"guid":"guid","sharedKey":"key"}`), w)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultPbkdf2Iterations, w.Iterations())
	require.NotNil(t, w.TxNotes)
	require.NotNil(t, w.Addresses)
	require.True(t, w.PasswordHash.IsNone())
}

func TestEncryptedPayload(t *testing.T) {
	t.Parallel()

	w := newEncryptedTestWallet(t)

	payload, err := w.ToEncryptedPayload("main password")
	require.NoError(t, err)

	p, err := walletcrypto.ParsePayload(payload)
	require.NoError(t, err)
	require.Equal(t, walletcrypto.PayloadVersion, p.Version)
	require.Equal(t, w.Iterations(), p.Pbkdf2Iterations)

	decoded, err := domain.FromEncryptedPayload("main password", payload)
	require.NoError(t, err)
	require.Equal(t, w, decoded)

	_, err = domain.FromEncryptedPayload("wrong password", payload)
	require.ErrorIs(t, err, walletcrypto.ErrDecryption)

	_, err = domain.FromEncryptedPayload("main password", "not a payload")
	require.ErrorIs(t, err, walletcrypto.ErrMalformedPayload)
}
