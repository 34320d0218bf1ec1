package textutil

import (
	"regexp"
	"strings"
)

// Truncate returns s unchanged if len(s) <= maxLen (measured in bytes).
// Otherwise it cuts at maxLen, backing off so a multi-byte UTF-8 sequence
// is never split, and appends suffix.
func Truncate(s string, maxLen int, suffix string) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && s[cut]>>6 == 0b10 {
		cut--
	}
	return s[:cut] + suffix
}

// A sentence is a run of non-terminators followed by one or more of . ! ?
var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Sentences splits s on terminal punctuation. Text with no terminator is
// returned as a single sentence; trailing text after the last terminator
// is dropped. Blank input yields nil.
func Sentences(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	found := sentenceRe.FindAllString(s, -1)
	if len(found) == 0 {
		return []string{s}
	}
	return found
}

// Partition groups items into at most n contiguous parts of
// ceil(len(items)/n) items each, joining each part with a space and
// trimming surrounding whitespace. Parts that trim to empty are dropped.
func Partition(items []string, n int) []string {
	if len(items) == 0 || n <= 0 {
		return nil
	}
	size := (len(items) + n - 1) / n
	var parts []string
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		part := strings.TrimSpace(strings.Join(trimAll(items[i:end]), " "))
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func trimAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
