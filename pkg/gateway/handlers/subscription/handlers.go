package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/subscription"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

// Accounts is the subscription flow surface the handlers call.
type Accounts interface {
	Load(ctx context.Context, addr common.Address) (*subscription.AccountState, error)
	Purchase(ctx context.Context, tier subscription.Tier) (*subscription.PurchaseReceipt, error)
}

// SessionInfo exposes the wallet session fields the handlers render.
type SessionInfo interface {
	Connected() bool
	Address() common.Address
}

// Handlers provides HTTP handlers for subscription state and purchases.
type Handlers struct {
	accounts Accounts
	session  SessionInfo
	logger   *logging.ColoredLogger
}

// NewHandlers creates subscription handlers over the given flows.
func NewHandlers(accounts Accounts, session SessionInfo, logger *logging.ColoredLogger) *Handlers {
	return &Handlers{accounts: accounts, session: session, logger: logger}
}

// stateView is the JSON shape of GET /v1/subscription.
type stateView struct {
	Address          string `json:"address"`
	Tier             string `json:"tier"`
	Active           bool   `json:"active"`
	Expiry           string `json:"expiry,omitempty"`
	UploadCount      uint64 `json:"upload_count"`
	UploadsRemaining string `json:"uploads_remaining"`
	BasicPriceEth    string `json:"basic_price_eth"`
	PremiumPriceEth  string `json:"premium_price_eth"`
}

func toStateView(state *subscription.AccountState, now time.Time) stateView {
	view := stateView{
		Address:          state.Address.Hex(),
		Tier:             state.Tier.Name(),
		Active:           state.IsActive(now),
		UploadCount:      state.UploadCount,
		UploadsRemaining: state.UploadsRemaining(),
		BasicPriceEth:    subscription.FormatEther(state.BasicPrice),
		PremiumPriceEth:  subscription.FormatEther(state.PremiumPrice),
	}
	if !state.Expiry.IsZero() && state.Expiry.Unix() != 0 {
		view.Expiry = state.Expiry.UTC().Format(time.RFC3339)
	}
	return view
}

// StateHandler handles GET /v1/subscription.
// By default it reads the session account; ?address= overrides, so state
// can be inspected without a configured wallet.
func (h *Handlers) StateHandler(w http.ResponseWriter, r *http.Request) {
	var addr common.Address
	if param := httputil.QueryParam(r, "address", ""); param != "" {
		if !httputil.ValidateWalletAddress(param) {
			httputil.WriteError(w, http.StatusBadRequest, "invalid address")
			return
		}
		addr = common.HexToAddress(param)
	} else {
		if !h.session.Connected() {
			httputil.WriteError(w, http.StatusBadRequest, "no wallet configured and no ?address= given")
			return
		}
		addr = h.session.Address()
	}

	state, err := h.accounts.Load(r.Context(), addr)
	if err != nil {
		h.logger.ComponentError(logging.ComponentSubscription, "failed to load account state",
			zap.String("address", addr.Hex()), zap.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, fmt.Sprintf("failed to load account state: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStateView(state, time.Now()))
}

type purchaseRequest struct {
	Tier    string `json:"tier"`
	Confirm bool   `json:"confirm"`
}

// PurchaseHandler handles POST /v1/subscription/purchase.
// The confirm flag is a deliberate acknowledgment gate: purchases move
// real funds, so the client must opt in explicitly.
func (h *Handlers) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var body purchaseRequest
	if err := httputil.DecodeJSONStrict(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid purchase body: %v", err))
		return
	}

	tier, ok := subscription.ParseTier(body.Tier)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown tier %q", body.Tier))
		return
	}
	if !body.Confirm {
		httputil.WriteError(w, http.StatusBadRequest, "purchase requires confirm=true")
		return
	}

	receipt, err := h.accounts.Purchase(r.Context(), tier)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrNoWallet), errors.Is(err, subscription.ErrTierNotPurchasable):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.ComponentError(logging.ComponentSubscription, "purchase failed",
				zap.String("tier", tier.Name()), zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, "purchase transaction failed")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, receipt)
}
