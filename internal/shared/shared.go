package shared

import (
	"os"
	"strings"
)

const EnvChatStubMode = "CHAT_STUB_MODE"

// IsChatStubMode checks if the chat proxy is forced into canned-reply mode
// via environment variable, regardless of configured credentials.
func IsChatStubMode() bool {
	stubMode := os.Getenv(EnvChatStubMode)
	return strings.ToLower(stubMode) == "true" || strings.ToLower(stubMode) == "1"
}
