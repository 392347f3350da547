package requests

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/wallet"
)

// maxUploadBytes caps PDF uploads at 5MB, matching the pinning service quota.
const maxUploadBytes = 5 << 20

// UploadHandler handles POST /v1/requests.
// It expects multipart/form-data with a "file" part plus "name" and
// "description" fields, pins the file and then submits the on-chain request.
func (h *Handlers) UploadHandler(w http.ResponseWriter, r *http.Request) {
	uploadID := uuid.New().String()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	description := r.FormValue("description")

	h.logger.ComponentInfo(logging.ComponentRequests, "upload received",
		zap.String("upload_id", uploadID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))

	receipt, err := h.svc.Submit(r.Context(), file, name, description)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrNoWallet),
			errors.Is(err, requests.ErrMissingFile),
			errors.Is(err, requests.ErrMissingName),
			errors.Is(err, requests.ErrMissingDescription):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.ComponentError(logging.ComponentRequests, "upload failed",
				zap.String("upload_id", uploadID), zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	h.logger.ComponentInfo(logging.ComponentRequests, "upload submitted",
		zap.String("upload_id", uploadID),
		zap.String("cid", receipt.CID),
		zap.String("tx_hash", receipt.TxHash))

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"upload_id": uploadID,
		"cid":       receipt.CID,
		"tx_hash":   receipt.TxHash,
		"block":     receipt.Block,
	})
}
