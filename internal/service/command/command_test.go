package command

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModels struct {
	model      string
	SetFunc    func(ctx context.Context, model string) error
	ModelsFunc func(ctx context.Context) ([]core.Model, error)
}

func (m *mockModels) GetModel() string { return m.model }

func (m *mockModels) SetModel(ctx context.Context, model string) error {
	if m.SetFunc != nil {
		if err := m.SetFunc(ctx, model); err != nil {
			return err
		}
	}
	m.model = model
	return nil
}

func (m *mockModels) Models(ctx context.Context) ([]core.Model, error) {
	return m.ModelsFunc(ctx)
}

type mockCorpus struct {
	status      core.CorpusStatus
	RefreshFunc func(ctx context.Context) (int, error)
}

func (m *mockCorpus) Refresh(ctx context.Context) (int, error) { return m.RefreshFunc(ctx) }
func (m *mockCorpus) Status() core.CorpusStatus               { return m.status }

type mockMessages struct {
	cleared []string
}

func (m *mockMessages) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	return nil
}

func (m *mockMessages) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	return nil, nil
}

func (m *mockMessages) ClearSession(ctx context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return nil
}

func newTestRouter(models *mockModels, corpus *mockCorpus, messages *mockMessages) *Router {
	return New(NewCommands("openai", models, corpus, messages))
}

func TestRouter_NotACommand(t *testing.T) {
	r := newTestRouter(&mockModels{}, &mockCorpus{}, &mockMessages{})
	out, handled := r.Execute(context.Background(), "s", "When do I graduate?")
	assert.False(t, handled)
	assert.Empty(t, out)
}

func TestRouter_Unknown(t *testing.T) {
	r := newTestRouter(&mockModels{}, &mockCorpus{}, &mockMessages{})
	out, handled := r.Execute(context.Background(), "s", "/dance")
	assert.True(t, handled)
	assert.Equal(t, "Unknown command: /dance", out)
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	r := newTestRouter(&mockModels{}, &mockCorpus{}, &mockMessages{})
	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"help", "model", "refresh", "reset", "status"}, names)

	out, _ := r.Execute(context.Background(), "s", "/help")
	assert.Contains(t, out, "`/refresh` Re-embed personal facts and drop the cache")
}

func TestModelCommand(t *testing.T) {
	models := &mockModels{
		model: "gpt-4o-mini",
		ModelsFunc: func(ctx context.Context) ([]core.Model, error) {
			return []core.Model{{ID: "gpt-4o-mini"}, {ID: "gpt-4o"}, {ID: "o3-mini"}}, nil
		},
	}
	r := newTestRouter(models, &mockCorpus{}, &mockMessages{})
	ctx := context.Background()

	out, _ := r.Execute(ctx, "s", "/model")
	assert.Contains(t, out, "**Model**  ›  `gpt-4o-mini`")

	out, _ = r.Execute(ctx, "s", "/model list 4o")
	assert.Contains(t, out, "Models (2)")
	assert.NotContains(t, out, "o3-mini")

	out, _ = r.Execute(ctx, "s", "/model gpt-4o")
	assert.Contains(t, out, "Model changed to: `openai/gpt-4o`")
	assert.Equal(t, "gpt-4o", models.GetModel())
}

func TestModelCommand_ListTruncates(t *testing.T) {
	models := &mockModels{ModelsFunc: func(ctx context.Context) ([]core.Model, error) {
		var out []core.Model
		for i := 0; i < 30; i++ {
			out = append(out, core.Model{ID: fmt.Sprintf("m-%02d", i)})
		}
		return out, nil
	}}

	out, err := NewModelCommand("ollama", models).Execute(context.Background(), "s", []string{"list"})
	require.NoError(t, err)
	assert.Contains(t, out, "Models (30)")
	assert.Contains(t, out, "m-19")
	assert.NotContains(t, out, "m-20")
}

func TestModelCommand_SetError(t *testing.T) {
	models := &mockModels{model: "a", SetFunc: func(ctx context.Context, model string) error {
		return errors.New("read-only env")
	}}
	r := newTestRouter(models, &mockCorpus{}, &mockMessages{})

	out, handled := r.Execute(context.Background(), "s", "/model b")
	assert.True(t, handled)
	assert.Contains(t, out, "/model failed")
	assert.Contains(t, out, "read-only env")
	assert.Equal(t, "a", models.GetModel())
}

func TestStatusCommand(t *testing.T) {
	corpus := &mockCorpus{status: core.CorpusStatus{CalendarStatus: "ok"}}
	cmd := NewStatusCommand(corpus)

	out, err := cmd.Execute(context.Background(), "s", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "**Cache**  ›  `empty`")

	corpus.status = core.CorpusStatus{
		Valid:          true,
		FetchedAt:      time.Date(2026, time.October, 18, 15, 4, 0, 0, time.UTC),
		WindowDays:     60,
		StaticCount:    4,
		CalendarCount:  12,
		CalendarStatus: "degraded",
	}
	out, err = cmd.Execute(context.Background(), "s", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "`2026-10-18 15:04:00`")
	assert.Contains(t, out, "`60 days`")
	assert.Contains(t, out, "**Calendar events**  ›  `12`")
	assert.Contains(t, out, "`degraded`")
}

func TestRefreshAndReset(t *testing.T) {
	corpus := &mockCorpus{RefreshFunc: func(ctx context.Context) (int, error) { return 4, nil }}
	messages := &mockMessages{}
	r := newTestRouter(&mockModels{}, corpus, messages)

	out, _ := r.Execute(context.Background(), "tg:42", "/refresh")
	assert.Contains(t, out, "Re-embedded 4 facts")

	out, _ = r.Execute(context.Background(), "tg:42", "/reset@twin_bot")
	assert.Contains(t, out, "Conversation cleared")
	assert.Equal(t, []string{"tg:42"}, messages.cleared)
}
