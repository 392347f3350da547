package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/config"
	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
)

// ErrNoWallet is returned when a write is attempted without key material.
// The message doubles as the user-facing call-to-action.
var ErrNoWallet = errors.New("no wallet configured: set wallet.keystore_path or wallet.private_key to submit transactions")

// AdminChecker looks up the admin flag for an address.
type AdminChecker interface {
	IsAdmin(ctx context.Context, addr common.Address) (bool, error)
}

// Session carries the active account, its derived admin flag, and a signer.
// Without key material the session is read-only: reads work, writes return
// ErrNoWallet. This mirrors the disconnected-wallet state of the UI.
type Session struct {
	address common.Address
	priv    *ecdsa.PrivateKey
	chainID *big.Int
	admin   bool
	logger  *logging.ColoredLogger
}

// NewSession builds a session from the configured key material. An absent
// key is not an error: the session degrades to read-only with a log line.
// Corrupt key material or a wrong passphrase is a hard error.
func NewSession(cfg config.WalletConfig, chainID int64, logger *logging.ColoredLogger) (*Session, error) {
	s := &Session{
		chainID: big.NewInt(chainID),
		logger:  logger,
	}

	switch {
	case cfg.PrivateKey != "":
		priv, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid wallet private key: %w", err)
		}
		s.priv = priv
		s.address = crypto.PubkeyToAddress(priv.PublicKey)

	case cfg.KeystorePath != "":
		raw, err := os.ReadFile(cfg.KeystorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore %s: %w", cfg.KeystorePath, err)
		}
		key, err := keystore.DecryptKey(raw, cfg.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to unlock keystore %s: %w", cfg.KeystorePath, err)
		}
		s.priv = key.PrivateKey
		s.address = key.Address

	default:
		logger.ComponentInfo(logging.ComponentWallet, "No wallet configured; running read-only")
		return s, nil
	}

	logger.ComponentInfo(logging.ComponentWallet, "Wallet unlocked",
		zap.String("address", s.address.Hex()),
	)
	return s, nil
}

// Connected reports whether the session holds a signing key.
func (s *Session) Connected() bool {
	return s.priv != nil
}

// Address returns the active account address. Zero when disconnected.
func (s *Session) Address() common.Address {
	return s.address
}

// DisplayAddress returns the truncated form used in session display.
func (s *Session) DisplayAddress() string {
	if !s.Connected() {
		return ""
	}
	return httputil.TruncateAddress(s.address.Hex())
}

// Admin returns the admin flag derived at the last Refresh.
func (s *Session) Admin() bool {
	return s.admin
}

// Refresh re-derives the admin flag for the active account. Called after
// session construction and after any account change. A disconnected session
// is never admin.
func (s *Session) Refresh(ctx context.Context, admins AdminChecker) error {
	if !s.Connected() {
		s.admin = false
		return nil
	}
	isAdmin, err := admins.IsAdmin(ctx, s.address)
	if err != nil {
		return fmt.Errorf("failed to derive admin status: %w", err)
	}
	s.admin = isAdmin
	s.logger.ComponentDebug(logging.ComponentWallet, "Admin status derived",
		zap.String("address", s.address.Hex()),
		zap.Bool("admin", isAdmin),
	)
	return nil
}

// TransactOpts returns a fresh signer for one transaction. The context is
// attached so confirmation waits inherit cancellation.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if !s.Connected() {
		return nil, ErrNoWallet
	}
	opts, err := bind.NewKeyedTransactorWithChainID(s.priv, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// TransactOptsWithValue returns a signer carrying a payment amount in wei.
func (s *Session) TransactOptsWithValue(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	opts, err := s.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.Value = value
	return opts, nil
}
