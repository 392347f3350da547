package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/logging"
)

// ErrTxReverted is returned when a mined transaction has a failed status.
var ErrTxReverted = errors.New("transaction reverted")

// Backend combines the read, write and receipt-lookup capabilities the
// contract handle needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// RequestInfo is the per-index request metadata projection.
type RequestInfo struct {
	Requester      common.Address
	Name           string
	Description    string
	SubmittedAt    *big.Int
	Approved       bool
	Processed      bool
	ApprovalCount  *big.Int
	RejectionCount *big.Int
}

// Contract is a handle to the single fixed repository contract. A handle is
// constructed fresh per call site and carries no connection state of its own
// beyond the backend it was built with.
type Contract struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	backend Backend
	logger  *logging.ColoredLogger
}

// NewContract binds the repository ABI to the given address over the backend.
func NewContract(backend Backend, address common.Address, logger *logging.ColoredLogger) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(repositoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository ABI: %w", err)
	}

	return &Contract{
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend: backend,
		logger:  logger,
	}, nil
}

// Dial connects to the RPC endpoint and returns a bound contract handle.
func Dial(ctx context.Context, rpcURL string, address common.Address, logger *logging.ColoredLogger) (*Contract, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC %s: %w", rpcURL, err)
	}

	logger.ComponentInfo(logging.ComponentChain, "Connected to chain RPC",
		zap.String("rpc_url", rpcURL),
		zap.String("contract", address.Hex()),
	)

	return NewContract(client, address, logger)
}

// Address returns the contract address the handle is bound to.
func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}
	if err := c.bound.Call(opts, &out, method, args...); err != nil {
		return nil, fmt.Errorf("contract call %s failed: %w", method, err)
	}
	return out, nil
}

// IsAdmin reports whether the address is flagged as an admin.
func (c *Contract) IsAdmin(ctx context.Context, addr common.Address) (bool, error) {
	out, err := c.call(ctx, "admins", addr)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// RequestCount returns the monotonically increasing request counter.
func (c *Contract) RequestCount(ctx context.Context) (*big.Int, error) {
	out, err := c.call(ctx, "requestIdCounter")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// RequestInfo returns the metadata projection for a single request index.
func (c *Contract) RequestInfo(ctx context.Context, id *big.Int) (RequestInfo, error) {
	out, err := c.call(ctx, "getRequestInfo", id)
	if err != nil {
		return RequestInfo{}, err
	}
	return RequestInfo{
		Requester:      *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Name:           *abi.ConvertType(out[1], new(string)).(*string),
		Description:    *abi.ConvertType(out[2], new(string)).(*string),
		SubmittedAt:    *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		Approved:       *abi.ConvertType(out[4], new(bool)).(*bool),
		Processed:      *abi.ConvertType(out[5], new(bool)).(*bool),
		ApprovalCount:  *abi.ConvertType(out[6], new(*big.Int)).(**big.Int),
		RejectionCount: *abi.ConvertType(out[7], new(*big.Int)).(**big.Int),
	}, nil
}

// RequestFileHash returns the content hash recorded for a request index.
func (c *Contract) RequestFileHash(ctx context.Context, id *big.Int) (string, error) {
	out, err := c.call(ctx, "getRequestPDFHash", id)
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// SubscriptionTier returns the tier enum value for the address.
func (c *Contract) SubscriptionTier(ctx context.Context, addr common.Address) (uint8, error) {
	out, err := c.call(ctx, "subscriptionTier", addr)
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// SubscriptionExpiry returns the unix expiry timestamp for the address.
func (c *Contract) SubscriptionExpiry(ctx context.Context, addr common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "subscriptionExpiry", addr)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// BasicTierPrice returns the wei price of the basic tier.
func (c *Contract) BasicTierPrice(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, "basicTierPrice")
}

// PremiumTierPrice returns the wei price of the premium tier.
func (c *Contract) PremiumTierPrice(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, "premiumTierPrice")
}

// UserUploadCount returns the cumulative upload count for the address.
func (c *Contract) UserUploadCount(ctx context.Context, addr common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "userUploadCount", addr)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// FreeTierUploadLimit returns the free-tier upload ceiling.
func (c *Contract) FreeTierUploadLimit(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, "freeTierUploadLimit")
}

// BasicTierUploadLimit returns the basic-tier upload ceiling.
func (c *Contract) BasicTierUploadLimit(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, "basicTierUploadLimit")
}

func (c *Contract) callBigInt(ctx context.Context, method string) (*big.Int, error) {
	out, err := c.call(ctx, method)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// VoteOnRequest submits an admin vote transaction. Admin authorization and
// double-vote rejection are enforced by the contract, not locally.
func (c *Contract) VoteOnRequest(opts *bind.TransactOpts, id *big.Int, approve bool) (*types.Transaction, error) {
	return c.bound.Transact(opts, "voteOnRequest", id, approve)
}

// CreateRequest submits a request-creation transaction carrying the display
// name, description and the pinned content hash.
func (c *Contract) CreateRequest(opts *bind.TransactOpts, name, description, fileHash string) (*types.Transaction, error) {
	return c.bound.Transact(opts, "createRequest", name, description, fileHash)
}

// PurchaseSubscription submits the payable purchase transaction. The payment
// amount must be set on opts.Value by the caller.
func (c *Contract) PurchaseSubscription(opts *bind.TransactOpts, tier uint8) (*types.Transaction, error) {
	return c.bound.Transact(opts, "purchaseSubscription", tier)
}

// WaitConfirmed blocks until the transaction is mined, then checks the
// receipt status. A mined-but-reverted transaction returns ErrTxReverted.
func (c *Contract) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		c.logger.ComponentWarn(logging.ComponentChain, "transaction reverted",
			zap.String("tx", tx.Hash().Hex()),
			zap.Uint64("block", receipt.BlockNumber.Uint64()),
		)
		return receipt, ErrTxReverted
	}
	return receipt, nil
}
