package clipboard

import (
	"strings"
	"unicode/utf8"
)

// Title limits and sentinels
const (
	MaxTitleRunes    = 50
	ImageTitle       = "[图片]"
	ImageContent     = "[Image]"
	pathTitlePattern = "[%s] %s"
)

// TextTitle returns the first non-empty line truncated to MaxTitleRunes
func TextTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return truncateRunes(line, MaxTitleRunes)
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// BaseName strips trailing separators of both styles and returns the last
// element, or the full path when nothing is left
func BaseName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return path
	}
	return trimmed
}
