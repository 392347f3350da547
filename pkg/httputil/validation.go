package httputil

import (
	"regexp"
	"strings"
)

// CID validation regex - basic IPFS CID pattern (v0 and v1)
// v0: Qm... (base58, 46 characters)
// v1: b... or z... (base32/base58, variable length)
var cidRegex = regexp.MustCompile(`^(Qm[1-9A-HJ-NP-Za-km-z]{44}|b[a-z2-7]{58,}|z[1-9A-HJ-NP-Za-km-z]{48,})$`)

// ValidateCID checks if a string is a valid IPFS CID.
func ValidateCID(cid string) bool {
	return cidRegex.MatchString(strings.TrimSpace(cid))
}

// ValidateWalletAddress checks if a string looks like an Ethereum wallet address.
// Valid addresses are 40 hex characters, optionally prefixed with "0x".
var walletRegex = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{40}$`)

func ValidateWalletAddress(wallet string) bool {
	return walletRegex.MatchString(strings.TrimSpace(wallet))
}

// NormalizeWalletAddress normalizes a wallet address by removing "0x" prefix and converting to lowercase.
func NormalizeWalletAddress(wallet string) string {
	wallet = strings.TrimSpace(wallet)
	wallet = strings.TrimPrefix(wallet, "0x")
	wallet = strings.TrimPrefix(wallet, "0X")
	return strings.ToLower(wallet)
}

// TruncateAddress shortens a wallet address for display: 0x1234...abcd.
// Addresses too short to truncate are returned unchanged.
func TruncateAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsNotEmpty checks if a string is not empty after trimming whitespace.
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
