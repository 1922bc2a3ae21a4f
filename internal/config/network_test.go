package config

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkType(t *testing.T) {
	tests := []struct {
		network NetworkType
		name    string
		port    int
		params  *chaincfg.Params
	}{
		{Mainnet, "mainnet", 18081, &chaincfg.MainNetParams},
		{Testnet, "testnet", 28081, &chaincfg.TestNet3Params},
		{Stagenet, "stagenet", 38081, &chaincfg.SigNetParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.network.String())
			assert.Equal(t, tt.port, tt.network.DefaultRPCPort())
			assert.Equal(t, tt.params.Name, tt.network.ChainParams().Name)

			text, err := tt.network.MarshalText()
			require.NoError(t, err)

			var decoded NetworkType
			require.NoError(t, decoded.UnmarshalText(text))
			assert.Equal(t, tt.network, decoded)
		})
	}

	var n NetworkType
	assert.Error(t, n.UnmarshalText([]byte("regtest")))
	assert.Equal(t, "Stagenet", Stagenet.Title())
}
