package main

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/config"
	"github.com/UniBookChain/unibook/pkg/logging"
)

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// parseGatewayConfig builds the gateway configuration.
// Priority: flags > env > config file > defaults.
func parseGatewayConfig(logger *logging.ColoredLogger) *config.Config {
	configPath := flag.String("config", getEnvDefault("UNIBOOK_CONFIG", ""), "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (e.g., :6001)")
	rpcURL := flag.String("rpc-url", "", "Ethereum RPC endpoint")
	contractAddr := flag.String("contract", "", "Repository contract address")
	keystore := flag.String("keystore", "", "Path to a keystore JSON file for the wallet session")

	// Do not call flag.Parse() elsewhere to avoid double-parsing
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.ComponentError(logging.ComponentGateway, "failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	if strings.TrimSpace(*addr) != "" {
		cfg.Gateway.ListenAddr = *addr
	}
	if strings.TrimSpace(*rpcURL) != "" {
		cfg.Chain.RPCURL = *rpcURL
	}
	if strings.TrimSpace(*contractAddr) != "" {
		cfg.Chain.ContractAddress = *contractAddr
	}
	if strings.TrimSpace(*keystore) != "" {
		cfg.Wallet.KeystorePath = *keystore
	}

	if err := cfg.Validate(); err != nil {
		logger.ComponentError(logging.ComponentGateway, "invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	logger.ComponentInfo(logging.ComponentGateway, "Loaded gateway configuration",
		zap.String("addr", cfg.Gateway.ListenAddr),
		zap.String("rpc_url", cfg.Chain.RPCURL),
		zap.String("contract", cfg.Chain.ContractAddress),
	)

	return cfg
}
