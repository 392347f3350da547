package requests

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the rendering state of a request. A request that has not been
// processed is always pending, whatever its vote counts say.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// UploadRequest is a read projection of one on-chain upload request. The
// contract owns the authoritative state; this struct is re-derived on every
// fetch and never persisted.
type UploadRequest struct {
	ID             uint64         `json:"id"`
	Requester      common.Address `json:"requester"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	Approved       bool           `json:"approved"`
	Processed      bool           `json:"processed"`
	ApprovalCount  uint64         `json:"approval_count"`
	RejectionCount uint64         `json:"rejection_count"`
	FileHash       string         `json:"file_hash"`
	FileURL        string         `json:"file_url"`
}

// Status derives the rendering state. Once the contract marks a request
// processed its approved flag is fixed; until then only pending actions
// may be shown.
func (r UploadRequest) Status() Status {
	if !r.Processed {
		return StatusPending
	}
	if r.Approved {
		return StatusApproved
	}
	return StatusRejected
}

// ListResult is an explicit partial result: items in index order plus the
// indices that failed to load and were skipped.
type ListResult struct {
	Items   []UploadRequest `json:"items"`
	Skipped []uint64        `json:"skipped"`
}

// ListOptions controls filtering of List output.
type ListOptions struct {
	// ApprovedOnly keeps only requests the contract has approved.
	ApprovedOnly bool
}

// WriteReceipt reports a confirmed mutating transaction. Fetched views are
// stale after any write; callers re-run the relevant read before rendering.
type WriteReceipt struct {
	TxHash string `json:"tx_hash"`
	Block  uint64 `json:"block"`
}

// SubmitReceipt reports a confirmed upload submission, including the
// content identifier the file was pinned under.
type SubmitReceipt struct {
	CID    string `json:"cid"`
	TxHash string `json:"tx_hash"`
	Block  uint64 `json:"block"`
}
