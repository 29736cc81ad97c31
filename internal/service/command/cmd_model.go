package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/twinbot/internal/core"
)

const maxListedModels = 20

// ModelSwitcher changes the generation model at runtime.
type ModelSwitcher interface {
	GetModel() string
	SetModel(ctx context.Context, model string) error
	Models(ctx context.Context) ([]core.Model, error)
}

type ModelCommand struct {
	provider  string
	models    ModelSwitcher
	formatter *ResponseFormatter
}

func NewModelCommand(provider string, models ModelSwitcher) *ModelCommand {
	return &ModelCommand{
		provider:  provider,
		models:    models,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show, list or change the generation model"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Current Model"),
			c.formatter.Label("Provider", c.provider),
			c.formatter.Label("Model", c.models.GetModel()),
			c.formatter.Usage("/model <name>\n/model list [filter]"),
		), nil
	}

	if args[0] == "list" {
		return c.list(ctx, args[1:])
	}

	if err := c.models.SetModel(ctx, args[0]); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}
	return c.formatter.Success(fmt.Sprintf("Model changed to: `%s/%s`", c.provider, c.models.GetModel())), nil
}

func (c *ModelCommand) list(ctx context.Context, args []string) (string, error) {
	models, err := c.models.Models(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list models: %w", err)
	}

	filter := strings.ToLower(strings.Join(args, " "))
	var items []string
	for _, m := range models {
		if filter != "" && !strings.Contains(strings.ToLower(m.ID), filter) {
			continue
		}
		items = append(items, "`"+m.ID+"`")
	}

	if len(items) == 0 {
		return c.formatter.Warning("No models found."), nil
	}

	out := []string{c.formatter.Info(fmt.Sprintf("Models (%d)", len(items)))}
	if len(items) > maxListedModels {
		items = items[:maxListedModels]
		out = append(out, c.formatter.List(items), c.formatter.Tip("narrow the list with /model list <filter>"))
	} else {
		out = append(out, c.formatter.List(items))
	}
	return c.formatter.Combine(out...), nil
}
