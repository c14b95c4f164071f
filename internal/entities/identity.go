package entities

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress canonicalizes an identity key: a 0x-prefixed 40-hex-digit
// address, lowercased. Both registries key records by this form only.
func NormalizeAddress(address string) (string, bool) {
	if !strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X") {
		return "", false
	}
	if !common.IsHexAddress(address) {
		return "", false
	}
	return strings.ToLower(address), true
}
