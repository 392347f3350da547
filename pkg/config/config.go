package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultContractAddress is the deployed repository contract.
const DefaultContractAddress = "0x5e69F6891A959aCfB4795201E720e1D1BC5B73Cc"

// DefaultPinGatewayURL is the public gateway used to build fetchable
// links from a content identifier.
const DefaultPinGatewayURL = "https://gateway.pinata.cloud/ipfs/"

// ChainConfig describes the RPC endpoint and the repository contract.
type ChainConfig struct {
	RPCURL          string        `yaml:"rpc_url"`          // JSON-RPC endpoint (e.g., "http://localhost:8545")
	ChainID         int64         `yaml:"chain_id"`         // Chain ID used for transaction signing
	ContractAddress string        `yaml:"contract_address"` // Repository contract address
	ConfirmTimeout  time.Duration `yaml:"confirm_timeout"`  // Max wait for transaction confirmation
}

// WalletConfig describes the local key material backing the session.
// All fields are optional: without keys the session is read-only.
type WalletConfig struct {
	KeystorePath string `yaml:"keystore_path"` // Path to a geth keystore file
	Passphrase   string `yaml:"passphrase"`    // Keystore passphrase (or WALLET_PASSPHRASE env)
	PrivateKey   string `yaml:"private_key"`   // Raw hex key, development only
}

// PinningConfig describes the HTTP pinning service.
type PinningConfig struct {
	APIURL     string        `yaml:"api_url"`     // Pinning API base URL (e.g., "https://api.pinata.cloud")
	JWT        string        `yaml:"jwt"`         // Bearer token for the pinning API
	GatewayURL string        `yaml:"gateway_url"` // Public gateway base for resolving CIDs
	Timeout    time.Duration `yaml:"timeout"`     // Timeout for pinning operations
}

// GatewayConfig describes the HTTP shell exposing the flows.
type GatewayConfig struct {
	ListenAddr string `yaml:"listen_addr"` // Address to listen on (e.g., ":6001")
}

// Config is the root configuration for both binaries.
type Config struct {
	Chain   ChainConfig   `yaml:"chain"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Pinning PinningConfig `yaml:"pinning"`
	Gateway GatewayConfig `yaml:"gateway"`
}

// Default returns a configuration with sane defaults for a local node.
func Default() *Config {
	return &Config{
		Chain: ChainConfig{
			RPCURL:          "http://localhost:8545",
			ChainID:         1,
			ContractAddress: DefaultContractAddress,
			ConfirmTimeout:  2 * time.Minute,
		},
		Pinning: PinningConfig{
			APIURL:     "https://api.pinata.cloud",
			GatewayURL: DefaultPinGatewayURL,
			Timeout:    60 * time.Second,
		},
		Gateway: GatewayConfig{
			ListenAddr: ":6001",
		},
	}
}

// Load reads configuration from the given YAML file, applied on top of
// defaults, then overlays environment variables. A missing file is not an
// error: env and defaults alone are enough to run read-only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to open config %s: %w", path, err)
			}
		} else {
			defer f.Close()
			if err := DecodeStrict(f, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
// Priority order in the binaries is flags > env > file > defaults.
func (c *Config) applyEnv() {
	if v := getenv("UNIBOOK_RPC_URL"); v != "" {
		c.Chain.RPCURL = v
	}
	if v := getenv("UNIBOOK_CONTRACT_ADDRESS"); v != "" {
		c.Chain.ContractAddress = v
	}
	if v := getenv("UNIBOOK_KEYSTORE"); v != "" {
		c.Wallet.KeystorePath = v
	}
	if v := getenv("WALLET_PASSPHRASE"); v != "" {
		c.Wallet.Passphrase = v
	}
	if v := getenv("UNIBOOK_PRIVATE_KEY"); v != "" {
		c.Wallet.PrivateKey = v
	}
	if v := getenv("PINATA_API_URL"); v != "" {
		c.Pinning.APIURL = v
	}
	if v := getenv("PINATA_JWT"); v != "" {
		c.Pinning.JWT = v
	}
	if v := getenv("PINATA_GATEWAY_URL"); v != "" {
		c.Pinning.GatewayURL = v
	}
	if v := getenv("GATEWAY_ADDR"); v != "" {
		c.Gateway.ListenAddr = v
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
