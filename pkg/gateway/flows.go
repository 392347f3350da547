package gateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/UniBookChain/unibook/pkg/subscription"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

// accountFlows adapts the subscription service to the handler surface:
// purchases always act for the session account and re-read prices right
// before paying.
type accountFlows struct {
	svc     *subscription.Service
	session *wallet.Session
	writer  subscription.PurchaseWriter
}

func (a *accountFlows) Load(ctx context.Context, addr common.Address) (*subscription.AccountState, error) {
	return a.svc.LoadAccountState(ctx, addr)
}

func (a *accountFlows) Purchase(ctx context.Context, tier subscription.Tier) (*subscription.PurchaseReceipt, error) {
	if !a.session.Connected() {
		return nil, wallet.ErrNoWallet
	}
	state, err := a.svc.LoadAccountState(ctx, a.session.Address())
	if err != nil {
		return nil, err
	}
	return a.svc.Purchase(ctx, a.session, a.writer, state, tier)
}
