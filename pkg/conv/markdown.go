package conv

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

// MarkdownToTelegramHTML renders md with only the tags Telegram accepts.
// Lists have no Telegram equivalent and become bullet or numbered lines.
func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          htmlFlags,
		RenderNodeHook: renderListItem,
	})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	return strings.TrimSpace(string(tgPolicy.SanitizeBytes(unsafeHTML)))
}

// ChunksToTelegramHTML converts each chunk, dropping the ones that render empty.
func ChunksToTelegramHTML(chunks []string) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if h := MarkdownToTelegramHTML([]byte(c)); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func renderListItem(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	item, ok := node.(*ast.ListItem)
	if !ok {
		return ast.GoToNext, false
	}
	if !entering {
		io.WriteString(w, "\n")
		return ast.GoToNext, true
	}

	if item.ListFlags&ast.ListTypeOrdered != 0 {
		fmt.Fprintf(w, "%d. ", itemIndex(item)+1)
	} else {
		io.WriteString(w, "• ")
	}
	return ast.GoToNext, true
}

func itemIndex(item *ast.ListItem) int {
	parent := item.GetParent()
	if parent == nil {
		return 0
	}
	for i, sibling := range parent.GetChildren() {
		if sibling == ast.Node(item) {
			return i
		}
	}
	return 0
}
