package config

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// NetworkType selects the ledger environment. It is decided once from the
// command line and never changes for the lifetime of the process.
type NetworkType int8

const (
	Mainnet NetworkType = iota
	Testnet
	Stagenet
)

func (n NetworkType) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Stagenet:
		return "stagenet"
	default:
		return fmt.Sprintf("network(%d)", int8(n))
	}
}

// Title is the capitalised form shown in window titles.
func (n NetworkType) Title() string {
	s := n.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func (n NetworkType) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *NetworkType) UnmarshalText(data []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case Mainnet.String():
		*n = Mainnet
	case Testnet.String():
		*n = Testnet
	case Stagenet.String():
		*n = Stagenet
	default:
		return fmt.Errorf("err: %s is not a valid network type", string(data))
	}
	return nil
}

// DefaultRPCPort is the daemon RPC port used when no daemon address is set.
func (n NetworkType) DefaultRPCPort() int {
	switch n {
	case Testnet:
		return 28081
	case Stagenet:
		return 38081
	default:
		return 18081
	}
}

// ChainParams maps the network onto the chain parameters the wallet engine
// derives addresses and ports from. Stagenet runs on signet.
func (n NetworkType) ChainParams() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Stagenet:
		return &chaincfg.SigNetParams
	default:
		return &chaincfg.MainNetParams
	}
}
