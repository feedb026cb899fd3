// Package stacktrace trims goroutine dumps down to this module's own frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations found in a raw
// debug.Stack dump, outermost call last.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.SplitSeq(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}
		internalIdx := strings.Index(line[:idx], "/internal/")
		if internalIdx == -1 {
			continue
		}
		loc, _, _ := strings.Cut(line[internalIdx+1:], " ")
		paths = append(paths, loc)
	}
	return paths
}
