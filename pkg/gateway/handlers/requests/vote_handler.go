package requests

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

type voteRequest struct {
	Approve bool `json:"approve"`
}

// VoteHandler handles POST /v1/requests/{id}/vote.
func (h *Handlers) VoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body voteRequest
	if err := httputil.DecodeJSONStrict(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid vote body: %v", err))
		return
	}

	receipt, err := h.svc.Vote(r.Context(), id, body.Approve)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrNoWallet):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, requests.ErrAlreadyVoted):
			httputil.WriteError(w, http.StatusConflict, "you have already voted on this request")
		default:
			h.logger.ComponentError(logging.ComponentRequests, "vote failed",
				zap.Uint64("id", id), zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, "vote transaction failed")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"approve": body.Approve,
		"tx_hash": receipt.TxHash,
		"block":   receipt.Block,
	})
}
