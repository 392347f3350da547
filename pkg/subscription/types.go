package subscription

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// Tier is the subscription level controlling upload quota and pricing.
// Values mirror the contract's enum.
type Tier uint8

const (
	TierFree    Tier = 0
	TierBasic   Tier = 1
	TierPremium Tier = 2
)

// Name returns the display name of the tier.
func (t Tier) Name() string {
	switch t {
	case TierFree:
		return "Free"
	case TierBasic:
		return "Basic"
	case TierPremium:
		return "Premium"
	default:
		return "Unknown"
	}
}

// ParseTier maps a tier name (case-insensitive) or numeric string to a Tier.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free", "0":
		return TierFree, true
	case "basic", "1":
		return TierBasic, true
	case "premium", "2":
		return TierPremium, true
	default:
		return TierFree, false
	}
}

// AccountState aggregates the subscription fields read for one account.
// It is a read projection: the contract owns all of it.
type AccountState struct {
	Address      common.Address
	Tier         Tier
	Expiry       time.Time
	UploadCount  uint64
	FreeLimit    uint64
	BasicLimit   uint64
	BasicPrice   *big.Int
	PremiumPrice *big.Int
}

// IsActive reports whether the subscription expiry is strictly after now.
func (s AccountState) IsActive(now time.Time) bool {
	return s.Expiry.After(now)
}

// UploadsRemaining derives the remaining upload quota as a display string.
// Premium is always unlimited regardless of usage; other tiers floor at zero.
func (s AccountState) UploadsRemaining() string {
	if s.Tier == TierPremium {
		return "Unlimited"
	}
	limit := s.FreeLimit
	if s.Tier == TierBasic {
		limit = s.BasicLimit
	}
	if s.UploadCount >= limit {
		return "0"
	}
	return new(big.Int).SetUint64(limit - s.UploadCount).String()
}

// FormatEther renders a wei amount as a decimal ether string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether))
	out := strings.TrimRight(r.FloatString(18), "0")
	return strings.TrimSuffix(out, ".")
}

// PurchaseReceipt reports a confirmed subscription purchase. The account
// state is stale after it; callers re-run LoadAccountState before rendering.
type PurchaseReceipt struct {
	TxHash string `json:"tx_hash"`
	Block  uint64 `json:"block"`
	Tier   string `json:"tier"`
}
