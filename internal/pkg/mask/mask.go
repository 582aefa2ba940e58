// Package mask applies the presentation masking policy for identities.
//
// Every identity must pass through this package before it reaches a log
// stream or any other persistent sink.
package mask

import "strings"

const placeholder = "***"

// Email masks an email identity, keeping the first two characters of the
// local part and the full domain (e.g. "us***@example.com"). Local parts
// shorter than three characters are masked entirely. Values without an "@"
// are fully masked.
func Email(identity string) string {
	at := strings.IndexByte(identity, '@')
	if at < 0 {
		return placeholder
	}

	local, domain := identity[:at], identity[at:]
	if len(local) < 3 {
		return placeholder + domain
	}

	return local[:2] + placeholder + domain
}
