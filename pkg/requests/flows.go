package requests

import (
	"context"
	"io"

	"github.com/UniBookChain/unibook/pkg/logging"
)

// ContractWriter combines the write surfaces the request flows use.
type ContractWriter interface {
	VoteWriter
	CreateWriter
}

// Flows bundles the request browser with the vote and submit flows behind
// one handle, wired once per process and shared by the HTTP shell and the
// CLI. It holds no fetched state: every call goes back to the contract.
type Flows struct {
	browser *Browser
	signer  Signer
	writer  ContractWriter
	pinner  FilePinner
	logger  *logging.ColoredLogger
}

// NewFlows wires the request flows over a session, contract handle and
// pinning client.
func NewFlows(browser *Browser, signer Signer, writer ContractWriter, pinner FilePinner, logger *logging.ColoredLogger) *Flows {
	return &Flows{
		browser: browser,
		signer:  signer,
		writer:  writer,
		pinner:  pinner,
		logger:  logger,
	}
}

// List pages over the request counter. See Browser.List.
func (f *Flows) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	return f.browser.List(ctx, opts)
}

// Vote submits an admin vote. See the package-level Vote.
func (f *Flows) Vote(ctx context.Context, id uint64, approve bool) (*WriteReceipt, error) {
	return Vote(ctx, f.signer, f.writer, f.logger, id, approve)
}

// Submit runs the upload flow. See the package-level Submit.
func (f *Flows) Submit(ctx context.Context, file io.Reader, name, description string) (*SubmitReceipt, error) {
	return Submit(ctx, f.signer, f.writer, f.pinner, f.logger, file, name, description)
}
