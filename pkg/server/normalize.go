package server

import "strings"

func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
