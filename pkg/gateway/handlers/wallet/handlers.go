package wallet

import (
	"net/http"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/logging"
)

// Session exposes the wallet state the status handler renders.
type Session interface {
	Connected() bool
	Admin() bool
	DisplayAddress() string
}

// Handlers provides the wallet status endpoint.
type Handlers struct {
	session Session
	logger  *logging.ColoredLogger
}

// NewHandlers creates wallet handlers over the given session.
func NewHandlers(session Session, logger *logging.ColoredLogger) *Handlers {
	return &Handlers{session: session, logger: logger}
}

// StatusHandler handles GET /v1/wallet.
// A read-only deployment still answers 200: "connected": false tells the
// client to prompt for wallet configuration rather than treating the
// gateway as down.
func (h *Handlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !h.session.Connected() {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"connected": false,
			"message":   "no wallet configured; reads work, writes require a keystore or private key",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"connected": true,
		"address":   h.session.DisplayAddress(),
		"admin":     h.session.Admin(),
	})
}
