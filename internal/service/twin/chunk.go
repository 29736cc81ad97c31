package twin

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxChunkLength = 400

// SplitIntoChunks packs whole sentences into chunks of at most maxLen characters.
// Sentences longer than maxLen become a chunk of their own. Whitespace between
// chunks is dropped, so joining the chunks with the original separators restores the text.
func SplitIntoChunks(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range splitSentences(text) {
		candidate := current.String() + sentence
		if current.Len() > 0 && utf8.RuneCountInString(strings.TrimRightFunc(candidate, unicode.IsSpace)) > maxLen {
			chunks = appendChunk(chunks, current.String())
			current.Reset()
		}
		current.WriteString(sentence)
	}
	return appendChunk(chunks, current.String())
}

func appendChunk(chunks []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return chunks
	}
	return append(chunks, s)
}

// splitSentences cuts text after runs of '.', '!' or '?' followed by whitespace.
// Each piece keeps its trailing whitespace; an unterminated tail is its own piece.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminator(runes[j+1]) {
			j++
		}
		if j+1 < len(runes) && !unicode.IsSpace(runes[j+1]) {
			i = j
			continue
		}
		for j+1 < len(runes) && unicode.IsSpace(runes[j+1]) {
			j++
		}
		out = append(out, string(runes[start:j+1]))
		start = j + 1
		i = j
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
