package requests

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/logging"
)

// ErrAlreadyVoted is reported when the node surfaces the contract's
// double-vote revert reason. When the node does not expose revert reasons
// the failure stays generic.
var ErrAlreadyVoted = errors.New("vote rejected: this admin has already voted on the request")

// ErrVoteFailed is the collapsed failure for any other vote outcome.
var ErrVoteFailed = errors.New("voting failed")

// Signer produces transaction options for one write.
type Signer interface {
	Connected() bool
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// VoteWriter is the write surface of the chain gateway used for voting.
type VoteWriter interface {
	VoteOnRequest(opts *bind.TransactOpts, id *big.Int, approve bool) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Vote submits an admin vote and waits for confirmation. Admin authorization
// is enforced by the contract. Listed views are stale after a successful
// vote; the caller must re-run List before rendering.
func Vote(ctx context.Context, signer Signer, writer VoteWriter, logger *logging.ColoredLogger, id uint64, approve bool) (*WriteReceipt, error) {
	opts, err := signer.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := writer.VoteOnRequest(opts, new(big.Int).SetUint64(id), approve)
	if err != nil {
		logger.ComponentError(logging.ComponentRequests, "vote transaction failed",
			zap.Uint64("request_id", id),
			zap.Bool("approve", approve),
			zap.Error(err),
		)
		return nil, classifyVoteError(err)
	}

	receipt, err := writer.WaitConfirmed(ctx, tx)
	if err != nil {
		logger.ComponentError(logging.ComponentRequests, "vote confirmation failed",
			zap.Uint64("request_id", id),
			zap.String("tx", tx.Hash().Hex()),
			zap.Error(err),
		)
		return nil, classifyVoteError(err)
	}

	logger.ComponentInfo(logging.ComponentRequests, "vote confirmed",
		zap.Uint64("request_id", id),
		zap.Bool("approve", approve),
		zap.String("tx", tx.Hash().Hex()),
	)

	return &WriteReceipt{
		TxHash: tx.Hash().Hex(),
		Block:  receipt.BlockNumber.Uint64(),
	}, nil
}

// classifyVoteError separates the one revert reason the contract documents
// from everything else. Every other cause collapses into ErrVoteFailed.
func classifyVoteError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "already voted") {
		return fmt.Errorf("%w: %v", ErrAlreadyVoted, err)
	}
	return fmt.Errorf("%w: %v", ErrVoteFailed, err)
}
