package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	requesthandlers "github.com/UniBookChain/unibook/pkg/gateway/handlers/requests"
	subhandlers "github.com/UniBookChain/unibook/pkg/gateway/handlers/subscription"
	wallethandlers "github.com/UniBookChain/unibook/pkg/gateway/handlers/wallet"
	"github.com/UniBookChain/unibook/pkg/httputil"
)

// Routes builds the HTTP API. The timeout covers transaction confirmation
// waits, which dominate write handlers.
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteSuccessWithData(w, map[string]any{
			"uptime_seconds": int(time.Since(g.startedAt).Seconds()),
			"contract":       g.cfg.Chain.ContractAddress,
			"pinning_ok":     g.pinner.TestAuth(req.Context()) == nil,
		})
	})

	reqh := requesthandlers.NewHandlers(g.flows, g.logger)
	subh := subhandlers.NewHandlers(
		&accountFlows{svc: g.accounts, session: g.session, writer: g.contract},
		g.session,
		g.logger,
	)
	walh := wallethandlers.NewHandlers(g.session, g.logger)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/wallet", walh.StatusHandler)

		r.Get("/requests", reqh.ListHandler)
		r.Post("/requests", reqh.UploadHandler)
		r.Post("/requests/{id}/vote", reqh.VoteHandler)

		r.Get("/subscription", subh.StateHandler)
		r.Post("/subscription/purchase", subh.PurchaseHandler)
	})

	return r
}
