package cli

import (
	"fmt"
	"io"

	"github.com/sandevgo/twinbot/internal/service/chat"
	"github.com/sandevgo/twinbot/internal/service/ui"
)

// PrintReply writes the answer text and, optionally, a source footer.
func PrintReply(w io.Writer, reply chat.Reply, withSources bool) {
	fmt.Fprintln(w, reply.Text)
	if reply.IsCommand || !withSources || len(reply.Answer.Sources) == 0 {
		return
	}

	fmt.Fprintln(w, ui.DescStyle.Render(fmt.Sprintf("confidence %.0f%%", reply.Answer.Confidence*100)))
	for i, src := range reply.Answer.Sources {
		fmt.Fprintln(w, ui.DescStyle.Render(fmt.Sprintf("  [%d] %s %.3f  %s", i+1, src.Type, src.Score, src.Preview)))
	}
}
