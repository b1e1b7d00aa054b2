package agent

import (
	"regexp"
	"strings"
)

var (
	channelPathRe = regexp.MustCompile(`/channel/([A-Za-z0-9_-]+)`)
	handlePathRe  = regexp.MustCompile(`/@([A-Za-z0-9._-]+)`)
	customPathRe  = regexp.MustCompile(`/c/([A-Za-z0-9_-]+)`)
)

// ExtractChannelIdentifier pulls a usable channel identity out of a raw
// URL or handle: the channel ID, the @handle, or the last path segment.
func ExtractChannelIdentifier(urlOrHandle string) string {
	text := strings.TrimSpace(urlOrHandle)
	if strings.HasPrefix(text, "@") {
		return text
	}
	if m := channelPathRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := handlePathRe.FindStringSubmatch(text); m != nil {
		return "@" + m[1]
	}
	if m := customPathRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if !strings.Contains(text, "youtube.com") && !strings.Contains(text, "/") {
		return text
	}
	if idx := strings.LastIndex(text, "/"); idx != -1 {
		return text[idx+1:]
	}
	return text
}
