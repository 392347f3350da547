package subscription

import (
	"math/big"
	"testing"
	"time"
)

func TestTier_Name(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierFree, "Free"},
		{TierBasic, "Basic"},
		{TierPremium, "Premium"},
		{Tier(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.tier.Name(); got != tt.want {
			t.Errorf("Tier(%d).Name() = %s, want %s", tt.tier, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in     string
		want   Tier
		wantOK bool
	}{
		{"basic", TierBasic, true},
		{"Premium", TierPremium, true},
		{"FREE", TierFree, true},
		{"1", TierBasic, true},
		{"2", TierPremium, true},
		{"gold", TierFree, false},
		{"", TierFree, false},
	}
	for _, tt := range tests {
		got, ok := ParseTier(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseTier(%q) = %v,%v, want %v,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAccountState_IsActive(t *testing.T) {
	now := time.Unix(1756598400, 0)

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"future", now.Add(time.Hour), true},
		{"past", now.Add(-time.Hour), false},
		{"exactly_now", now, false}, // strictly after, not at
		{"zero", time.Unix(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AccountState{Expiry: tt.expiry}
			if got := s.IsActive(now); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccountState_UploadsRemaining(t *testing.T) {
	tests := []struct {
		name  string
		tier  Tier
		used  uint64
		free  uint64
		basic uint64
		want  string
	}{
		{"free_with_room", TierFree, 1, 2, 10, "1"},
		{"free_exhausted", TierFree, 2, 2, 10, "0"},
		{"free_over_limit_floors_at_zero", TierFree, 5, 2, 10, "0"},
		{"basic_with_room", TierBasic, 4, 2, 10, "6"},
		{"basic_at_limit", TierBasic, 10, 2, 10, "0"},
		{"basic_over_limit_floors_at_zero", TierBasic, 11, 2, 10, "0"},
		{"premium_unlimited", TierPremium, 10000, 2, 10, "Unlimited"},
		{"premium_unlimited_at_zero_usage", TierPremium, 0, 2, 10, "Unlimited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AccountState{
				Tier:        tt.tier,
				UploadCount: tt.used,
				FreeLimit:   tt.free,
				BasicLimit:  tt.basic,
			}
			if got := s.UploadsRemaining(); got != tt.want {
				t.Errorf("UploadsRemaining() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want string
	}{
		{"nil", nil, "0"},
		{"zero", big.NewInt(0), "0"},
		{"one_ether", big.NewInt(1000000000000000000), "1"},
		{"hundredth", big.NewInt(10000000000000000), "0.01"},
		{"three_hundredths", big.NewInt(30000000000000000), "0.03"},
		{"one_wei", big.NewInt(1), "0.000000000000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEther(tt.wei); got != tt.want {
				t.Errorf("FormatEther() = %s, want %s", got, tt.want)
			}
		})
	}
}
