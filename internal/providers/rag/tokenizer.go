package rag

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const (
	encodingName = "cl100k_base"
	// MaxInputTokens is the input limit of the OpenAI embedding models.
	MaxInputTokens = 8191
	// runesPerToken approximates token counts when the encoding cannot be loaded.
	runesPerToken = 4
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding(encodingName)
	})
	return tk, tkErr
}

// Tokenizer counts and truncates text in cl100k_base tokens.
type Tokenizer struct{}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

func (Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	enc, err := getTokenizer()
	if err != nil {
		return (utf8.RuneCountInString(text) + runesPerToken - 1) / runesPerToken
	}
	return len(enc.Encode(text, nil, nil))
}

// Truncate cuts text to at most maxTokens tokens.
func (Tokenizer) Truncate(text string, maxTokens int) string {
	if text == "" || maxTokens <= 0 {
		return ""
	}
	enc, err := getTokenizer()
	if err != nil {
		maxRunes := maxTokens * runesPerToken
		if utf8.RuneCountInString(text) <= maxRunes {
			return text
		}
		return string([]rune(text)[:maxRunes])
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return enc.Decode(tokens[:maxTokens])
}
