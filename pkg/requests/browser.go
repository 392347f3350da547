package requests

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/chain"
	"github.com/UniBookChain/unibook/pkg/logging"
)

// ContractReader is the read surface of the chain gateway the browser uses.
type ContractReader interface {
	RequestCount(ctx context.Context) (*big.Int, error)
	RequestInfo(ctx context.Context, id *big.Int) (chain.RequestInfo, error)
	RequestFileHash(ctx context.Context, id *big.Int) (string, error)
}

// Browser pages over the on-chain request counter and assembles read
// projections. It holds no state between calls: every List is a full
// re-fetch.
type Browser struct {
	reader     ContractReader
	gatewayURL string
	logger     *logging.ColoredLogger
}

// NewBrowser creates a request browser over the given contract reader.
// gatewayURL is the public gateway base used to resolve content hashes.
func NewBrowser(reader ContractReader, gatewayURL string, logger *logging.ColoredLogger) *Browser {
	return &Browser{
		reader:     reader,
		gatewayURL: gatewayURL,
		logger:     logger,
	}
}

// List reads the request counter and fetches every index. The metadata and
// content-hash reads for one index run concurrently, and all indices are in
// flight at once; the result joins them in index order. An index whose reads
// fail is logged and recorded in Skipped rather than aborting the whole
// listing.
func (b *Browser) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	count, err := b.reader.RequestCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read request counter: %w", err)
	}
	n := count.Uint64()

	type indexResult struct {
		req UploadRequest
		err error
	}
	results := make([]indexResult, n)

	var wg sync.WaitGroup
	for i := uint64(0); i < n; i++ {
		wg.Add(1)
		go func(i uint64) {
			defer wg.Done()

			id := new(big.Int).SetUint64(i)

			var (
				info    chain.RequestInfo
				infoErr error
				hash    string
				hashErr error
			)
			var inner sync.WaitGroup
			inner.Add(2)
			go func() {
				defer inner.Done()
				info, infoErr = b.reader.RequestInfo(ctx, id)
			}()
			go func() {
				defer inner.Done()
				hash, hashErr = b.reader.RequestFileHash(ctx, id)
			}()
			inner.Wait()

			if infoErr != nil {
				results[i] = indexResult{err: infoErr}
				return
			}
			if hashErr != nil {
				results[i] = indexResult{err: hashErr}
				return
			}

			results[i] = indexResult{req: UploadRequest{
				ID:             i,
				Requester:      info.Requester,
				Name:           info.Name,
				Description:    info.Description,
				SubmittedAt:    time.Unix(info.SubmittedAt.Int64(), 0).UTC(),
				Approved:       info.Approved,
				Processed:      info.Processed,
				ApprovalCount:  info.ApprovalCount.Uint64(),
				RejectionCount: info.RejectionCount.Uint64(),
				FileHash:       hash,
				FileURL:        ResolveURL(b.gatewayURL, hash),
			}}
		}(i)
	}
	wg.Wait()

	result := &ListResult{
		Items:   make([]UploadRequest, 0, n),
		Skipped: []uint64{},
	}
	for i := uint64(0); i < n; i++ {
		if results[i].err != nil {
			b.logger.ComponentWarn(logging.ComponentRequests, "skipping request index",
				zap.Uint64("index", i),
				zap.Error(results[i].err),
			)
			result.Skipped = append(result.Skipped, i)
			continue
		}
		if opts.ApprovedOnly && !results[i].req.Approved {
			continue
		}
		result.Items = append(result.Items, results[i].req)
	}

	return result, nil
}
