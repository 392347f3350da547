package subscription

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

type fakeSubReader struct {
	tier      uint8
	expiry    int64
	basic     int64
	premium   int64
	uploads   int64
	freeLim   int64
	basicLim  int64
	expiryErr error
}

func (f *fakeSubReader) SubscriptionTier(_ context.Context, _ common.Address) (uint8, error) {
	return f.tier, nil
}

func (f *fakeSubReader) SubscriptionExpiry(_ context.Context, _ common.Address) (*big.Int, error) {
	if f.expiryErr != nil {
		return nil, f.expiryErr
	}
	return big.NewInt(f.expiry), nil
}

func (f *fakeSubReader) BasicTierPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(f.basic), nil
}

func (f *fakeSubReader) PremiumTierPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(f.premium), nil
}

func (f *fakeSubReader) UserUploadCount(_ context.Context, _ common.Address) (*big.Int, error) {
	return big.NewInt(f.uploads), nil
}

func (f *fakeSubReader) FreeTierUploadLimit(_ context.Context) (*big.Int, error) {
	return big.NewInt(f.freeLim), nil
}

func (f *fakeSubReader) BasicTierUploadLimit(_ context.Context) (*big.Int, error) {
	return big.NewInt(f.basicLim), nil
}

type fakeValueSigner struct {
	connected bool
	gotValue  *big.Int
}

func (f *fakeValueSigner) Connected() bool { return f.connected }

func (f *fakeValueSigner) TransactOptsWithValue(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	if !f.connected {
		return nil, wallet.ErrNoWallet
	}
	f.gotValue = value
	return &bind.TransactOpts{Context: ctx, Value: value, NoSend: true}, nil
}

type fakePurchaseWriter struct {
	purchaseErr error
	gotTier     uint8
}

func (f *fakePurchaseWriter) PurchaseSubscription(_ *bind.TransactOpts, tier uint8) (*types.Transaction, error) {
	f.gotTier = tier
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}
	to := common.HexToAddress("0x5e69F6891A959aCfB4795201E720e1D1BC5B73Cc")
	return types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Gas: 21000, GasPrice: big.NewInt(1)}), nil
}

func (f *fakePurchaseWriter) WaitConfirmed(_ context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(9), TxHash: tx.Hash()}, nil
}

func subLogger(t *testing.T) *logging.ColoredLogger {
	t.Helper()
	logger, err := logging.NewColoredLogger(logging.ComponentSubscription, false)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func TestService_LoadAccountState(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("aggregates_reads", func(t *testing.T) {
		reader := &fakeSubReader{
			tier:     1,
			expiry:   1767225600,
			basic:    10000000000000000, // 0.01 ether
			premium:  30000000000000000, // 0.03 ether
			uploads:  4,
			freeLim:  2,
			basicLim: 10,
		}
		svc := NewService(reader, subLogger(t))

		state, err := svc.LoadAccountState(context.Background(), addr)
		if err != nil {
			t.Fatalf("LoadAccountState() error = %v", err)
		}
		if state.Tier != TierBasic {
			t.Errorf("Tier = %v, want Basic", state.Tier)
		}
		if !state.Expiry.Equal(time.Unix(1767225600, 0)) {
			t.Errorf("Expiry = %v, want unix 1767225600", state.Expiry)
		}
		if state.UploadCount != 4 || state.BasicLimit != 10 || state.FreeLimit != 2 {
			t.Errorf("counts = %d/%d/%d", state.UploadCount, state.BasicLimit, state.FreeLimit)
		}
		if FormatEther(state.BasicPrice) != "0.01" {
			t.Errorf("basic price = %s, want 0.01", FormatEther(state.BasicPrice))
		}
	})

	t.Run("single_read_failure_aborts", func(t *testing.T) {
		reader := &fakeSubReader{expiryErr: errors.New("rpc down")}
		svc := NewService(reader, subLogger(t))

		if _, err := svc.LoadAccountState(context.Background(), addr); err == nil {
			t.Error("LoadAccountState() expected error, got nil")
		}
	})
}

func TestService_Purchase(t *testing.T) {
	state := &AccountState{
		BasicPrice:   big.NewInt(10),
		PremiumPrice: big.NewInt(30),
	}

	t.Run("basic_tier_carries_basic_price", func(t *testing.T) {
		signer := &fakeValueSigner{connected: true}
		writer := &fakePurchaseWriter{}
		svc := NewService(&fakeSubReader{}, subLogger(t))

		receipt, err := svc.Purchase(context.Background(), signer, writer, state, TierBasic)
		if err != nil {
			t.Fatalf("Purchase() error = %v", err)
		}
		if signer.gotValue.Int64() != 10 {
			t.Errorf("value = %v, want 10", signer.gotValue)
		}
		if writer.gotTier != 1 {
			t.Errorf("tier = %d, want 1", writer.gotTier)
		}
		if receipt.Tier != "Basic" || receipt.Block != 9 {
			t.Errorf("receipt = %+v", receipt)
		}
	})

	t.Run("premium_tier_carries_premium_price", func(t *testing.T) {
		signer := &fakeValueSigner{connected: true}
		svc := NewService(&fakeSubReader{}, subLogger(t))

		if _, err := svc.Purchase(context.Background(), signer, &fakePurchaseWriter{}, state, TierPremium); err != nil {
			t.Fatalf("Purchase() error = %v", err)
		}
		if signer.gotValue.Int64() != 30 {
			t.Errorf("value = %v, want 30", signer.gotValue)
		}
	})

	t.Run("free_tier_not_purchasable", func(t *testing.T) {
		svc := NewService(&fakeSubReader{}, subLogger(t))
		_, err := svc.Purchase(context.Background(), &fakeValueSigner{connected: true}, &fakePurchaseWriter{}, state, TierFree)
		if !errors.Is(err, ErrTierNotPurchasable) {
			t.Errorf("Purchase() error = %v, want ErrTierNotPurchasable", err)
		}
	})

	t.Run("disconnected_wallet", func(t *testing.T) {
		svc := NewService(&fakeSubReader{}, subLogger(t))
		_, err := svc.Purchase(context.Background(), &fakeValueSigner{}, &fakePurchaseWriter{}, state, TierBasic)
		if !errors.Is(err, wallet.ErrNoWallet) {
			t.Errorf("Purchase() error = %v, want ErrNoWallet", err)
		}
	})

	t.Run("rejection_collapses_to_generic", func(t *testing.T) {
		writer := &fakePurchaseWriter{purchaseErr: errors.New("insufficient funds")}
		svc := NewService(&fakeSubReader{}, subLogger(t))
		_, err := svc.Purchase(context.Background(), &fakeValueSigner{connected: true}, writer, state, TierBasic)
		if !errors.Is(err, ErrPurchaseFailed) {
			t.Errorf("Purchase() error = %v, want ErrPurchaseFailed", err)
		}
	})
}
