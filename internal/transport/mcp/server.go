package mcp

import (
	"context"
	"fmt"
	"io"
	"strings"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
)

const (
	toolAsk     = "ask_twin"
	toolRefresh = "refresh_corpus"
)

// Server exposes the twin to MCP clients over stdio.
type Server struct {
	mcp    *server.MCPServer
	asker  core.Asker
	corpus core.CorpusAdmin
	in     io.Reader
	out    io.Writer
}

func NewServer(subject string, asker core.Asker, corpus core.CorpusAdmin, in io.Reader, out io.Writer) *Server {
	s := &Server{
		mcp:    server.NewMCPServer(core.TwinName, core.TwinVersion, server.WithToolCapabilities(false)),
		asker:  asker,
		corpus: corpus,
		in:     in,
		out:    out,
	}

	s.mcp.AddTool(mcpproto.NewTool(toolAsk,
		mcpproto.WithDescription(fmt.Sprintf("Ask %s a question. Answers come from their resume facts and calendar.", subject)),
		mcpproto.WithString("question", mcpproto.Required(), mcpproto.Description("Natural-language question")),
	), s.handleAsk)

	s.mcp.AddTool(mcpproto.NewTool(toolRefresh,
		mcpproto.WithDescription("Drop the corpus cache and recompute static fact embeddings"),
	), s.handleRefresh)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")
	return server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) handleAsk(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcpproto.NewToolResultError("question is required"), nil
	}

	answer, err := s.asker.Ask(ctx, question, nil)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("mcp ask failed")
		return mcpproto.NewToolResultError("failed to process question"), nil
	}

	return mcpproto.NewToolResultText(formatAnswer(answer)), nil
}

func (s *Server) handleRefresh(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	count, err := s.corpus.Refresh(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("mcp refresh failed")
		return mcpproto.NewToolResultError(fmt.Sprintf("refresh failed: %v", err)), nil
	}
	return mcpproto.NewToolResultText(fmt.Sprintf("Re-embedded %d static facts.", count)), nil
}

func formatAnswer(a core.Answer) string {
	var sb strings.Builder
	sb.WriteString(a.Text)
	if len(a.Sources) == 0 {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n\nConfidence: %.0f%%\nSources:\n", a.Confidence*100)
	for _, src := range a.Sources {
		fmt.Fprintf(&sb, "- [%s %.2f] %s\n", src.Type, src.Score, src.Preview)
	}
	return strings.TrimRight(sb.String(), "\n")
}
