package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/UniBookChain/unibook/pkg/requests"
	"github.com/UniBookChain/unibook/pkg/subscription"
)

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error formatting JSON: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func printRequestTable(result *requests.ListResult) {
	if len(result.Items) == 0 {
		fmt.Println("No requests found")
	} else {
		fmt.Printf("%-5s %-30s %-10s %-8s %-8s %s\n", "ID", "NAME", "STATUS", "YES", "NO", "SUBMITTED")
		for _, item := range result.Items {
			name := item.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-5d %-30s %-10s %-8d %-8d %s\n",
				item.ID, name, item.Status(),
				item.ApprovalCount, item.RejectionCount,
				item.SubmittedAt.UTC().Format("2006-01-02"))
		}
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("⚠️  %d request(s) could not be read: %v\n", len(result.Skipped), result.Skipped)
	}
}

func printRequestDetail(req requests.UploadRequest) {
	fmt.Printf("Request #%d\n", req.ID)
	fmt.Printf("  Name:        %s\n", req.Name)
	fmt.Printf("  Description: %s\n", req.Description)
	fmt.Printf("  Requester:   %s\n", req.Requester.Hex())
	fmt.Printf("  Submitted:   %s\n", req.SubmittedAt.UTC().Format(time.RFC3339))
	fmt.Printf("  Status:      %s (%d yes / %d no)\n", req.Status(), req.ApprovalCount, req.RejectionCount)
	if req.FileURL != "" {
		fmt.Printf("  File:        %s\n", req.FileURL)
	}
}

func printSubscription(state *subscription.AccountState) {
	fmt.Printf("Account: %s\n", state.Address.Hex())
	fmt.Printf("  Tier:    %s\n", state.Tier.Name())
	if state.IsActive(time.Now()) {
		fmt.Printf("  Expires: %s\n", state.Expiry.UTC().Format(time.RFC3339))
	} else if state.Tier != subscription.TierFree {
		fmt.Println("  Expires: expired")
	}
	fmt.Printf("  Uploads: %d used, %s remaining\n", state.UploadCount, state.UploadsRemaining())
	fmt.Printf("  Prices:  basic %s ETH, premium %s ETH\n",
		subscription.FormatEther(state.BasicPrice), subscription.FormatEther(state.PremiumPrice))
}
