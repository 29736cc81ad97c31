package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "twin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEmbeddingRepo_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewEmbeddingRepo(newTestDB(t))

	docs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, repo.SaveAll(ctx, []core.Document{
		{ID: "edu", Type: core.DocumentStatic, Title: "education", Content: "CS student", Embedding: []float32{0.1, -0.2, 3}},
		{ID: "work", Type: core.DocumentStatic, Title: "work", Content: "Intern at Acme", Embedding: []float32{1, 0, 0}},
	}))

	// update keeps the row position and replaces the vector
	require.NoError(t, repo.SaveAll(ctx, []core.Document{
		{ID: "edu", Title: "education", Content: "CS senior", Embedding: []float32{0, 1, 0}},
	}))

	docs, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, core.Document{
		ID: "edu", Type: core.DocumentStatic, Title: "education", Content: "CS senior", Embedding: []float32{0, 1, 0},
	}, docs[0])
	assert.Equal(t, []float32{1, 0, 0}, docs[1].Embedding)

	require.NoError(t, repo.Clear(ctx))
	docs, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEmbeddingRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewEmbeddingRepo(newTestDB(t))

	require.NoError(t, repo.SaveAll(ctx, []core.Document{
		{ID: "edu", Content: "CS student", Embedding: []float32{1}},
		{ID: "old", Content: "Former intern", Embedding: []float32{2}},
	}))
	require.NoError(t, repo.Delete(ctx, []string{"old", "never-saved"}))
	require.NoError(t, repo.Delete(ctx, nil))

	docs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "edu", docs[0].ID)
}

func TestEmbeddingRepo_SkipsTamperedRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEmbeddingRepo(db)

	require.NoError(t, repo.SaveAll(ctx, []core.Document{
		{ID: "edu", Content: "CS student", Embedding: []float32{1}},
	}))
	_, err := db.ExecContext(ctx, `UPDATE static_embeddings SET content = 'edited'`)
	require.NoError(t, err)

	docs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMessagesRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMessagesRepo(newTestDB(t))

	for i := 0; i < 8; i++ {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		require.NoError(t, repo.AddMessage(ctx, "tg:1", core.Message{Role: role, Content: fmt.Sprintf("m%d", i)}))
	}
	require.NoError(t, repo.AddMessage(ctx, "cli", core.Message{Role: core.RoleUser, Content: "other"}))

	msgs, err := repo.GetMessages(ctx, "tg:1", 6)
	require.NoError(t, err)
	require.Len(t, msgs, 6)
	assert.Equal(t, core.Message{Role: core.RoleUser, Content: "m2"}, msgs[0])
	assert.Equal(t, core.Message{Role: core.RoleAssistant, Content: "m7"}, msgs[5])

	require.NoError(t, repo.ClearSession(ctx, "tg:1"))
	msgs, err = repo.GetMessages(ctx, "tg:1", 6)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = repo.GetMessages(ctx, "cli", 6)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestVectorRoundTrip(t *testing.T) {
	blob, err := serializeVector([]float32{1.5, -2, 0})
	require.NoError(t, err)
	assert.Len(t, blob, 12)

	_, err = deserializeVector(blob[:5])
	require.Error(t, err)
}
