package cli

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/UniBookChain/unibook/pkg/subscription"
)

func purchaseState() *subscription.AccountState {
	return &subscription.AccountState{
		BasicPrice:   big.NewInt(10000000000000000),  // 0.01 ether
		PremiumPrice: big.NewInt(100000000000000000), // 0.1 ether
	}
}

func TestConfirmPurchase(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"yes_short", "y\n", true},
		{"yes_long", "yes\n", true},
		{"yes_upper", "Y\n", true},
		{"no", "n\n", false},
		{"default_is_no", "\n", false},
		{"garbage_is_no", "sure\n", false},
		{"eof_is_no", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirmPurchase(strings.NewReader(tt.answer), &out, purchaseState(), subscription.TierBasic)
			if got != tt.want {
				t.Fatalf("confirmPurchase(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

type fakePinRemover struct {
	count      int
	countErr   error
	unpinErr   error
	unpinCalls int
}

func (f *fakePinRemover) PinnedCount(_ context.Context, _ string) (int, error) {
	return f.count, f.countErr
}

func (f *fakePinRemover) Unpin(_ context.Context, _ string) error {
	f.unpinCalls++
	return f.unpinErr
}

func TestRemoveOrphanedPin(t *testing.T) {
	t.Run("pinned_cid_is_removed", func(t *testing.T) {
		pinner := &fakePinRemover{count: 1}
		var out bytes.Buffer
		if err := removeOrphanedPin(context.Background(), pinner, &out, "QmX"); err != nil {
			t.Fatalf("removeOrphanedPin: %v", err)
		}
		if pinner.unpinCalls != 1 {
			t.Fatalf("unpin calls = %d, want 1", pinner.unpinCalls)
		}
		if !strings.Contains(out.String(), "Unpinned") {
			t.Errorf("output %q does not confirm the removal", out.String())
		}
	})

	t.Run("unpinned_cid_is_left_alone", func(t *testing.T) {
		pinner := &fakePinRemover{count: 0}
		var out bytes.Buffer
		if err := removeOrphanedPin(context.Background(), pinner, &out, "QmX"); err != nil {
			t.Fatalf("removeOrphanedPin: %v", err)
		}
		if pinner.unpinCalls != 0 {
			t.Fatalf("unpin calls = %d, want 0", pinner.unpinCalls)
		}
		if !strings.Contains(out.String(), "Not pinned") {
			t.Errorf("output %q does not report the missing pin", out.String())
		}
	})

	t.Run("count_failure_aborts", func(t *testing.T) {
		pinner := &fakePinRemover{countErr: errors.New("pin service down")}
		var out bytes.Buffer
		if err := removeOrphanedPin(context.Background(), pinner, &out, "QmX"); err == nil {
			t.Fatal("expected an error when the pin lookup fails")
		}
		if pinner.unpinCalls != 0 {
			t.Fatalf("unpin calls = %d, want 0", pinner.unpinCalls)
		}
	})

	t.Run("unpin_failure_surfaces", func(t *testing.T) {
		pinner := &fakePinRemover{count: 2, unpinErr: errors.New("denied")}
		var out bytes.Buffer
		if err := removeOrphanedPin(context.Background(), pinner, &out, "QmX"); err == nil {
			t.Fatal("expected the unpin error to surface")
		}
	})
}

func TestConfirmPurchasePromptShowsPriceAndDuration(t *testing.T) {
	var out bytes.Buffer
	confirmPurchase(strings.NewReader("n\n"), &out, purchaseState(), subscription.TierPremium)

	prompt := out.String()
	if !strings.Contains(prompt, "Premium") {
		t.Errorf("prompt %q does not name the tier", prompt)
	}
	if !strings.Contains(prompt, "0.1 ETH") {
		t.Errorf("prompt %q does not show the premium price", prompt)
	}
	if !strings.Contains(prompt, "30 days") {
		t.Errorf("prompt %q does not state the access duration", prompt)
	}
}
