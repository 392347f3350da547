package requests

import (
	"context"
	"io"

	"github.com/UniBookChain/unibook/pkg/logging"
	"github.com/UniBookChain/unibook/pkg/requests"
)

// Service is the request flow surface the handlers call.
type Service interface {
	List(ctx context.Context, opts requests.ListOptions) (*requests.ListResult, error)
	Vote(ctx context.Context, id uint64, approve bool) (*requests.WriteReceipt, error)
	Submit(ctx context.Context, file io.Reader, name, description string) (*requests.SubmitReceipt, error)
}

// Handlers provides HTTP handlers for browsing, voting on and submitting
// upload requests.
type Handlers struct {
	svc    Service
	logger *logging.ColoredLogger
}

// NewHandlers creates request handlers over the given service.
func NewHandlers(svc Service, logger *logging.ColoredLogger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// requestView decorates an upload request with its derived rendering state.
type requestView struct {
	requests.UploadRequest
	Status requests.Status `json:"status"`
}

func toViews(items []requests.UploadRequest) []requestView {
	views := make([]requestView, 0, len(items))
	for _, item := range items {
		views = append(views, requestView{UploadRequest: item, Status: item.Status()})
	}
	return views
}
