package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/UniBookChain/unibook/pkg/chain"
	"github.com/UniBookChain/unibook/pkg/config"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/pinning"
	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/subscription"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

// App bundles the wired flows a CLI command needs. Commands are short-lived:
// each invocation dials, acts once and exits.
type App struct {
	Config   *config.Config
	Logger   *logging.ColoredLogger
	Contract *chain.Contract
	Session  *wallet.Session
	Pinner   *pinning.Client
	Flows    *requests.Flows
	Accounts *subscription.Service
}

// createApp wires the CLI the same way the gateway wires itself: config from
// UNIBOOK_CONFIG plus env, chain dial, wallet session with read-only fallback.
func createApp(timeout time.Duration) (*App, error) {
	logger, err := logging.NewColoredLogger(logging.ComponentCLI, true)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(os.Getenv("UNIBOOK_CONFIG"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	contract, err := chain.Dial(ctx, cfg.Chain.RPCURL, common.HexToAddress(cfg.Chain.ContractAddress), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Chain.RPCURL, err)
	}

	session, err := wallet.NewSession(cfg.Wallet, cfg.Chain.ChainID, logger)
	if err != nil {
		return nil, err
	}
	if session.Connected() {
		if err := session.Refresh(ctx, contract); err != nil {
			return nil, fmt.Errorf("failed to derive admin status: %w", err)
		}
	}

	pinner, err := pinning.NewClient(pinning.Config{
		APIURL:  cfg.Pinning.APIURL,
		JWT:     cfg.Pinning.JWT,
		Timeout: cfg.Pinning.Timeout,
	}, logger.Logger)
	if err != nil {
		return nil, err
	}

	browser := requests.NewBrowser(contract, cfg.Pinning.GatewayURL, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Contract: contract,
		Session:  session,
		Pinner:   pinner,
		Flows:    requests.NewFlows(browser, session, contract, pinner, logger),
		Accounts: subscription.NewService(contract, logger),
	}, nil
}

// createPinner wires only the pinning client, for commands that never touch
// the chain.
func createPinner() (*pinning.Client, error) {
	logger, err := logging.NewColoredLogger(logging.ComponentCLI, true)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(os.Getenv("UNIBOOK_CONFIG"))
	if err != nil {
		return nil, err
	}

	return pinning.NewClient(pinning.Config{
		APIURL:  cfg.Pinning.APIURL,
		JWT:     cfg.Pinning.JWT,
		Timeout: cfg.Pinning.Timeout,
	}, logger.Logger)
}

// mustApp wires the app or exits with the failure printed.
func mustApp(timeout time.Duration) *App {
	app, err := createApp(timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return app
}
