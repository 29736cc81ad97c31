package twin

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/twinbot/internal/core"
)

const (
	NoDataMarker    = "No relevant personal data found."
	MaxHistoryTurns = 6
	previewLength   = 100
	blockSeparator  = "\n---\n"
	dateLineLayout  = "Monday, January 2, 2006 at 03:04 PM"
)

// DateLine states the current date and time for the model.
func DateLine(now time.Time) string {
	return "Current date and time: " + now.Format(dateLineLayout)
}

// BuildContext renders documents as labelled source blocks in retrieval order.
func BuildContext(docs []core.ScoredDocument) string {
	if len(docs) == 0 {
		return NoDataMarker
	}

	blocks := make([]string, len(docs))
	for i, d := range docs {
		blocks[i] = fmt.Sprintf("[Source %d - %s]\n%s\n", i+1, d.Type, d.Content)
	}
	return strings.Join(blocks, blockSeparator)
}

// GroundingContext is the date line followed by the rendered sources.
func GroundingContext(now time.Time, docs []core.ScoredDocument) string {
	return DateLine(now) + "\n\n" + BuildContext(docs)
}

// Sources exposes previews of the documents without raw content or embeddings.
func Sources(docs []core.ScoredDocument) []core.Source {
	out := make([]core.Source, len(docs))
	for i, d := range docs {
		out[i] = core.Source{
			Type:    d.Type,
			Preview: preview(d.Content),
			Score:   d.Score,
		}
	}
	return out
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content + "..."
	}
	return string([]rune(content)[:previewLength]) + "..."
}

// TrimHistory keeps the last n turns.
func TrimHistory(history []core.Message, n int) []core.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
