package subscription

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/logging"
)

// ErrTierNotPurchasable is returned for purchase attempts on the free tier
// or an unknown tier value.
var ErrTierNotPurchasable = errors.New("only the Basic and Premium tiers can be purchased")

// ErrPurchaseFailed is the collapsed failure for any purchase outcome the
// contract or node rejects.
var ErrPurchaseFailed = errors.New("subscription purchase failed")

// ContractReader is the read surface of the chain gateway used for
// subscription lookups.
type ContractReader interface {
	SubscriptionTier(ctx context.Context, addr common.Address) (uint8, error)
	SubscriptionExpiry(ctx context.Context, addr common.Address) (*big.Int, error)
	BasicTierPrice(ctx context.Context) (*big.Int, error)
	PremiumTierPrice(ctx context.Context) (*big.Int, error)
	UserUploadCount(ctx context.Context, addr common.Address) (*big.Int, error)
	FreeTierUploadLimit(ctx context.Context) (*big.Int, error)
	BasicTierUploadLimit(ctx context.Context) (*big.Int, error)
}

// PurchaseWriter is the write surface used for the payable purchase.
type PurchaseWriter interface {
	PurchaseSubscription(opts *bind.TransactOpts, tier uint8) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// ValueSigner produces transaction options carrying a payment amount.
type ValueSigner interface {
	Connected() bool
	TransactOptsWithValue(ctx context.Context, value *big.Int) (*bind.TransactOpts, error)
}

// Service loads account subscription state and submits purchases.
type Service struct {
	reader ContractReader
	logger *logging.ColoredLogger
}

// NewService creates a subscription service over the given contract reader.
func NewService(reader ContractReader, logger *logging.ColoredLogger) *Service {
	return &Service{reader: reader, logger: logger}
}

// LoadAccountState reads tier, expiry, prices, usage and limits for the
// address, sequentially. The first failing read aborts the load; the caller
// keeps whatever state it had.
func (s *Service) LoadAccountState(ctx context.Context, addr common.Address) (*AccountState, error) {
	tier, err := s.reader.SubscriptionTier(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription tier: %w", err)
	}
	expiry, err := s.reader.SubscriptionExpiry(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription expiry: %w", err)
	}
	basicPrice, err := s.reader.BasicTierPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read basic tier price: %w", err)
	}
	premiumPrice, err := s.reader.PremiumTierPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read premium tier price: %w", err)
	}
	uploads, err := s.reader.UserUploadCount(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload count: %w", err)
	}
	freeLimit, err := s.reader.FreeTierUploadLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read free tier limit: %w", err)
	}
	basicLimit, err := s.reader.BasicTierUploadLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read basic tier limit: %w", err)
	}

	state := &AccountState{
		Address:      addr,
		Tier:         Tier(tier),
		Expiry:       time.Unix(expiry.Int64(), 0).UTC(),
		UploadCount:  uploads.Uint64(),
		FreeLimit:    freeLimit.Uint64(),
		BasicLimit:   basicLimit.Uint64(),
		BasicPrice:   basicPrice,
		PremiumPrice: premiumPrice,
	}

	s.logger.ComponentDebug(logging.ComponentSubscription, "account state loaded",
		zap.String("address", addr.Hex()),
		zap.String("tier", state.Tier.Name()),
		zap.Uint64("uploads", state.UploadCount),
	)

	return state, nil
}

// Purchase submits the payable purchase transaction for the chosen tier,
// priced from the previously loaded state, and waits for confirmation.
// Explicit user acknowledgment of price and duration must happen before
// this call; both binaries gate on it. After success the caller re-runs
// LoadAccountState.
func (s *Service) Purchase(ctx context.Context, signer ValueSigner, writer PurchaseWriter, state *AccountState, tier Tier) (*PurchaseReceipt, error) {
	var price *big.Int
	switch tier {
	case TierBasic:
		price = state.BasicPrice
	case TierPremium:
		price = state.PremiumPrice
	default:
		return nil, ErrTierNotPurchasable
	}

	opts, err := signer.TransactOptsWithValue(ctx, price)
	if err != nil {
		return nil, err
	}

	tx, err := writer.PurchaseSubscription(opts, uint8(tier))
	if err != nil {
		s.logger.ComponentError(logging.ComponentSubscription, "purchase transaction failed",
			zap.String("tier", tier.Name()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPurchaseFailed, err)
	}

	receipt, err := writer.WaitConfirmed(ctx, tx)
	if err != nil {
		s.logger.ComponentError(logging.ComponentSubscription, "purchase confirmation failed",
			zap.String("tx", tx.Hash().Hex()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPurchaseFailed, err)
	}

	s.logger.ComponentInfo(logging.ComponentSubscription, "subscription purchased",
		zap.String("tier", tier.Name()),
		zap.String("price_wei", price.String()),
		zap.String("tx", tx.Hash().Hex()),
	)

	return &PurchaseReceipt{
		TxHash: tx.Hash().Hex(),
		Block:  receipt.BlockNumber.Uint64(),
		Tier:   tier.Name(),
	}, nil
}
