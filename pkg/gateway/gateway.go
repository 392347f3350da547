package gateway

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/chain"
	"github.com/UniBookChain/unibook/pkg/config"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/pinning"
	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/subscription"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

// Gateway is the HTTP shell over the contract-facing flows. It holds one
// wired instance of each flow; no fetched state is cached between requests.
type Gateway struct {
	logger    *logging.ColoredLogger
	cfg       *config.Config
	session   *wallet.Session
	contract  *chain.Contract
	flows     *requests.Flows
	accounts  *subscription.Service
	pinner    *pinning.Client
	startedAt time.Time
}

// New connects the chain contract, unlocks the wallet session (or degrades
// to read-only) and wires the flows.
func New(ctx context.Context, logger *logging.ColoredLogger, cfg *config.Config) (*Gateway, error) {
	logger.ComponentInfo(logging.ComponentGateway, "Connecting chain contract...")
	contract, err := chain.Dial(ctx, cfg.Chain.RPCURL, common.HexToAddress(cfg.Chain.ContractAddress), logger)
	if err != nil {
		return nil, err
	}

	session, err := wallet.NewSession(cfg.Wallet, cfg.Chain.ChainID, logger)
	if err != nil {
		return nil, err
	}
	if session.Connected() {
		if err := session.Refresh(ctx, contract); err != nil {
			// Admin gating degrades to non-admin until the next refresh.
			logger.ComponentWarn(logging.ComponentGateway, "failed to derive admin status", zap.Error(err))
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

	g := &Gateway{
		logger:    logger,
		cfg:       cfg,
		session:   session,
		contract:  contract,
		flows:     requests.NewFlows(browser, session, contract, pinner, logger),
		accounts:  subscription.NewService(contract, logger),
		pinner:    pinner,
		startedAt: time.Now(),
	}

	logger.ComponentInfo(logging.ComponentGateway, "Gateway wired",
		zap.String("contract", cfg.Chain.ContractAddress),
		zap.Bool("wallet_connected", session.Connected()),
		zap.Bool("admin", session.Admin()),
	)

	return g, nil
}

// Session exposes the wallet session for the shell and the CLI.
func (g *Gateway) Session() *wallet.Session {
	return g.session
}
