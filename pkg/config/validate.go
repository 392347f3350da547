package config

import (
	"fmt"
	"regexp"
	"strings"
)

var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Validate checks the configuration for values that would fail at first use.
// It returns the first problem found with an actionable message.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Chain.RPCURL) == "" {
		return fmt.Errorf("chain.rpc_url is required (set UNIBOOK_RPC_URL or the config file)")
	}
	if !strings.HasPrefix(c.Chain.RPCURL, "http://") && !strings.HasPrefix(c.Chain.RPCURL, "https://") &&
		!strings.HasPrefix(c.Chain.RPCURL, "ws://") && !strings.HasPrefix(c.Chain.RPCURL, "wss://") {
		return fmt.Errorf("chain.rpc_url %q must be an http(s) or ws(s) URL", c.Chain.RPCURL)
	}
	if !addressRegex.MatchString(strings.TrimSpace(c.Chain.ContractAddress)) {
		return fmt.Errorf("chain.contract_address %q is not a valid 0x-prefixed address", c.Chain.ContractAddress)
	}
	if c.Chain.ChainID <= 0 {
		return fmt.Errorf("chain.chain_id must be positive, got %d", c.Chain.ChainID)
	}
	if c.Wallet.KeystorePath != "" && c.Wallet.PrivateKey != "" {
		return fmt.Errorf("wallet.keystore_path and wallet.private_key are mutually exclusive")
	}
	if strings.TrimSpace(c.Pinning.APIURL) == "" {
		return fmt.Errorf("pinning.api_url is required")
	}
	if strings.TrimSpace(c.Pinning.GatewayURL) == "" {
		return fmt.Errorf("pinning.gateway_url is required")
	}
	if strings.TrimSpace(c.Gateway.ListenAddr) == "" {
		return fmt.Errorf("gateway.listen_addr is required")
	}
	return nil
}
