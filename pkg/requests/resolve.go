package requests

import "strings"

// ResolveURL maps a recorded content hash to a fetchable URL. It is total:
// every input produces a string and no input panics.
//
// Rules: empty hash resolves to the empty URL; absolute http(s) URLs pass
// through unchanged; an "ipfs://" prefix is stripped; any other bare hash is
// appended to the gateway base.
func ResolveURL(gatewayBase, hash string) string {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return ""
	}
	if strings.HasPrefix(hash, "http://") || strings.HasPrefix(hash, "https://") {
		return hash
	}
	hash = strings.TrimPrefix(hash, "ipfs://")
	if !strings.HasSuffix(gatewayBase, "/") {
		gatewayBase += "/"
	}
	return gatewayBase + hash
}
