package service

import "strings"

// destFileName builds the destination file name for a transferred
// recording: the kebab-cased topic with possessive 's stripped, plus
// the kind's extension.
func destFileName(topic, extension string) string {
	return toKebabCase(strings.TrimSpace(strings.ReplaceAll(topic, "'s", ""))) + extension
}

func toKebabCase(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
