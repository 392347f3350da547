package requests

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/pinning"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

// Local validation failures. All are raised before any network access.
var (
	ErrMissingFile        = errors.New("a file is required")
	ErrMissingName        = errors.New("a display name is required")
	ErrMissingDescription = errors.New("a description is required")
)

// FilePinner uploads raw bytes to the pinning service.
type FilePinner interface {
	PinFile(ctx context.Context, reader io.Reader, name string) (*pinning.PinResponse, error)
}

// CreateWriter is the write surface of the chain gateway used for
// request creation.
type CreateWriter interface {
	CreateRequest(opts *bind.TransactOpts, name, description, fileHash string) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Submit runs the upload flow: validate locally, pin the file, then submit
// the creation transaction and wait for confirmation. A pinning failure
// aborts before any transaction is attempted. If the transaction fails after
// the pin succeeded, the pinned file is left orphaned; that gap is accepted
// and not remediated.
func Submit(ctx context.Context, signer Signer, writer CreateWriter, pinner FilePinner, logger *logging.ColoredLogger, file io.Reader, name, description string) (*SubmitReceipt, error) {
	if !signer.Connected() {
		return nil, wallet.ErrNoWallet
	}
	if file == nil {
		return nil, ErrMissingFile
	}
	if httputil.IsEmpty(name) {
		return nil, ErrMissingName
	}
	if httputil.IsEmpty(description) {
		return nil, ErrMissingDescription
	}

	pinned, err := pinner.PinFile(ctx, file, name)
	if err != nil {
		logger.ComponentError(logging.ComponentRequests, "pinning failed, aborting submission",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to pin file: %w", err)
	}

	opts, err := signer.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := writer.CreateRequest(opts, name, description, pinned.CID)
	if err != nil {
		logger.ComponentError(logging.ComponentRequests, "create request transaction failed",
			zap.String("cid", pinned.CID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}

	receipt, err := writer.WaitConfirmed(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm request: %w", err)
	}

	logger.ComponentInfo(logging.ComponentRequests, "upload request submitted",
		zap.String("name", name),
		zap.String("cid", pinned.CID),
		zap.String("tx", tx.Hash().Hex()),
	)

	return &SubmitReceipt{
		CID:    pinned.CID,
		TxHash: tx.Hash().Hex(),
		Block:  receipt.BlockNumber.Uint64(),
	}, nil
}
