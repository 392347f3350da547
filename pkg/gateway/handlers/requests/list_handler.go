package requests

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/requests"
)

// ListHandler handles GET /v1/requests.
// With ?approved=true only approved requests are returned, which is the
// library view. Indices that could not be read are reported in "skipped"
// rather than failing the whole response.
func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	opts := requests.ListOptions{
		ApprovedOnly: httputil.QueryParamBool(r, "approved", false),
	}

	result, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.logger.ComponentError(logging.ComponentRequests, "failed to list requests", zap.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, fmt.Sprintf("failed to list requests: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"items":   toViews(result.Items),
		"skipped": result.Skipped,
		"total":   len(result.Items),
	})
}
