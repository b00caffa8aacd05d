package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile("[^a-z0-9 -]+")
	slugHyphenRuns   = regexp.MustCompile("-+")
)

// GenerateSlug converts a string into a URL-friendly slug.
// e.g. "Camisa de Vestir!" -> "camisa-de-vestir"
func GenerateSlug(input string) string {
	s := strings.ToLower(input)
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
