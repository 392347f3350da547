package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/UniBookChain/unibook/pkg/httputil"
	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/subscription"
)

// HandleStatusCommand handles the status command
func HandleStatusCommand(format string, timeout time.Duration) {
	app := mustApp(timeout)

	status := map[string]any{
		"rpc_url":   app.Config.Chain.RPCURL,
		"contract":  app.Contract.Address().Hex(),
		"connected": app.Session.Connected(),
	}
	if app.Session.Connected() {
		status["address"] = app.Session.Address().Hex()
		status["admin"] = app.Session.Admin()
	}

	if format == "json" {
		printJSON(status)
		return
	}
	fmt.Printf("RPC:      %s\n", app.Config.Chain.RPCURL)
	fmt.Printf("Contract: %s\n", app.Contract.Address().Hex())
	if app.Session.Connected() {
		fmt.Printf("Wallet:   %s\n", app.Session.DisplayAddress())
		fmt.Printf("Admin:    %v\n", app.Session.Admin())
	} else {
		fmt.Println("Wallet:   not configured (read-only)")
	}
}

// HandleListCommand handles the list and library commands. The library view
// is the approved-only listing.
func HandleListCommand(approvedOnly bool, format string, timeout time.Duration) {
	app := mustApp(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := app.Flows.List(ctx, requests.ListOptions{ApprovedOnly: approvedOnly})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list requests: %v\n", err)
		os.Exit(1)
	}

	if format == "json" {
		printJSON(result)
		return
	}
	printRequestTable(result)
}

// HandleShowCommand handles the show command
func HandleShowCommand(id uint64, format string, timeout time.Duration) {
	app := mustApp(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := app.Contract.RequestInfo(ctx, new(big.Int).SetUint64(id))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read request %d: %v\n", id, err)
		os.Exit(1)
	}
	hash, err := app.Contract.RequestFileHash(ctx, new(big.Int).SetUint64(id))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file hash for request %d: %v\n", id, err)
		os.Exit(1)
	}

	req := requests.UploadRequest{
		ID:             id,
		Requester:      info.Requester,
		Name:           info.Name,
		Description:    info.Description,
		SubmittedAt:    time.Unix(info.SubmittedAt.Int64(), 0),
		Approved:       info.Approved,
		Processed:      info.Processed,
		ApprovalCount:  info.ApprovalCount.Uint64(),
		RejectionCount: info.RejectionCount.Uint64(),
		FileHash:       hash,
		FileURL:        requests.ResolveURL(app.Config.Pinning.GatewayURL, hash),
	}

	if format == "json" {
		printJSON(req)
		return
	}
	printRequestDetail(req)
}

// HandleUploadCommand handles the upload command
func HandleUploadCommand(path, name, description string, timeout time.Duration) {
	app := mustApp(timeout)

	if name == "" {
		name = filepath.Base(path)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Chain.ConfirmTimeout)
	defer cancel()

	receipt, err := app.Flows.Submit(ctx, f, name, description)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Upload request submitted\n")
	fmt.Printf("   CID:   %s\n", receipt.CID)
	fmt.Printf("   Tx:    %s\n", receipt.TxHash)
	fmt.Printf("   Block: %d\n", receipt.Block)
}

// HandleVoteCommand handles the vote command
func HandleVoteCommand(id uint64, approve bool, timeout time.Duration) {
	app := mustApp(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Chain.ConfirmTimeout)
	defer cancel()

	receipt, err := app.Flows.Vote(ctx, id, approve)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Vote failed: %v\n", err)
		os.Exit(1)
	}

	verdict := "rejected"
	if approve {
		verdict = "approved"
	}
	fmt.Printf("✅ Request %d %s\n", id, verdict)
	fmt.Printf("   Tx:    %s\n", receipt.TxHash)
	fmt.Printf("   Block: %d\n", receipt.Block)
}

// HandleSubscriptionCommand handles the subscription command
func HandleSubscriptionCommand(format string, timeout time.Duration) {
	app := mustApp(timeout)

	if !app.Session.Connected() {
		fmt.Fprintln(os.Stderr, "No wallet configured: set UNIBOOK_KEYSTORE or UNIBOOK_PRIVATE_KEY")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	state, err := app.Accounts.LoadAccountState(ctx, app.Session.Address())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load subscription state: %v\n", err)
		os.Exit(1)
	}

	if format == "json" {
		printJSON(state)
		return
	}
	printSubscription(state)
}

// HandleSubscribeCommand handles the subscribe command. It loads current
// prices, asks for acknowledgment of price and duration (skipped with
// --yes), transacts and then re-reads the account state for display.
func HandleSubscribeCommand(tierName string, assumeYes bool, timeout time.Duration) {
	tier, ok := subscription.ParseTier(tierName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown tier %q (want basic or premium)\n", tierName)
		os.Exit(1)
	}

	app := mustApp(timeout)

	if !app.Session.Connected() {
		fmt.Fprintln(os.Stderr, "No wallet configured: set UNIBOOK_KEYSTORE or UNIBOOK_PRIVATE_KEY")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Chain.ConfirmTimeout)
	defer cancel()

	state, err := app.Accounts.LoadAccountState(ctx, app.Session.Address())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load current prices: %v\n", err)
		os.Exit(1)
	}

	if !assumeYes && !confirmPurchase(os.Stdin, os.Stdout, state, tier) {
		fmt.Println("Purchase cancelled")
		return
	}

	receipt, err := app.Accounts.Purchase(ctx, app.Session, app.Contract, state, tier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Purchase failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Purchased %s subscription\n", receipt.Tier)
	fmt.Printf("   Tx:    %s\n", receipt.TxHash)
	fmt.Printf("   Block: %d\n", receipt.Block)

	refreshed, err := app.Accounts.LoadAccountState(ctx, app.Session.Address())
	if err == nil {
		fmt.Printf("   Valid until: %s\n", refreshed.Expiry.UTC().Format(time.RFC3339))
	}
}

// pinRemover is the pinning surface the unpin command needs.
type pinRemover interface {
	PinnedCount(ctx context.Context, cid string) (int, error)
	Unpin(ctx context.Context, cid string) error
}

// HandleUnpinCommand handles the unpin command. A submit failure after a
// successful pin leaves the file pinned with no on-chain request; this is
// the cleanup for those orphans.
func HandleUnpinCommand(cid string, timeout time.Duration) {
	if !httputil.ValidateCID(cid) {
		fmt.Fprintf(os.Stderr, "Invalid CID: %s\n", cid)
		os.Exit(1)
	}

	pinner, err := createPinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := removeOrphanedPin(ctx, pinner, os.Stdout, cid); err != nil {
		fmt.Fprintf(os.Stderr, "Unpin failed: %v\n", err)
		os.Exit(1)
	}
}

// removeOrphanedPin checks the pin actually exists before deleting it, so a
// typoed CID reports "not pinned" instead of a misleading success.
func removeOrphanedPin(ctx context.Context, pinner pinRemover, out io.Writer, cid string) error {
	count, err := pinner.PinnedCount(ctx, cid)
	if err != nil {
		return fmt.Errorf("failed to check pin status: %w", err)
	}
	if count == 0 {
		fmt.Fprintf(out, "Not pinned: %s\n", cid)
		return nil
	}

	if err := pinner.Unpin(ctx, cid); err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Unpinned %s\n", cid)
	return nil
}

// confirmPurchase prints the price and duration of the chosen tier and reads
// a yes/no answer. The purchase proceeds only on an explicit "y" or "yes".
func confirmPurchase(in io.Reader, out io.Writer, state *subscription.AccountState, tier subscription.Tier) bool {
	price := state.BasicPrice
	if tier == subscription.TierPremium {
		price = state.PremiumPrice
	}
	fmt.Fprintf(out, "Purchase %s subscription for %s ETH (30 days of access)? [y/N]: ",
		tier.Name(), subscription.FormatEther(price))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// HandleHealthCommand handles the health command
func HandleHealthCommand(format string, timeout time.Duration) {
	app := mustApp(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	count, err := app.Contract.RequestCount(ctx)
	chainOK := err == nil

	pinErr := app.Pinner.TestAuth(ctx)
	pinOK := pinErr == nil

	if format == "json" {
		health := map[string]any{
			"chain_ok":   chainOK,
			"pinning_ok": pinOK,
		}
		if chainOK {
			health["request_count"] = count.Uint64()
		}
		printJSON(health)
	} else {
		if chainOK {
			fmt.Printf("Chain:   ok (%d requests)\n", count.Uint64())
		} else {
			fmt.Printf("Chain:   unreachable (%v)\n", err)
		}
		if pinOK {
			fmt.Println("Pinning: ok")
		} else {
			fmt.Printf("Pinning: unavailable (%v)\n", pinErr)
		}
	}

	if !chainOK || !pinOK {
		os.Exit(1)
	}
}
