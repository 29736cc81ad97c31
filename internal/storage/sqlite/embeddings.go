package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
)

// EmbeddingRepo persists static fact embeddings so unchanged facts are not re-embedded.
type EmbeddingRepo struct {
	db *sql.DB
}

func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

func (r *EmbeddingRepo) Load(ctx context.Context) ([]core.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category, content, content_hash, embedding FROM static_embeddings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var (
			doc  core.Document
			hash string
			blob []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &hash, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		if hash != contentHash(doc.Content) {
			// content edited outside the repo, force a re-embed
			continue
		}
		doc.Type = core.DocumentStatic
		if doc.Embedding, err = deserializeVector(blob); err != nil {
			return nil, fmt.Errorf("embedding %s: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(docs)).Msg("loaded persisted embeddings")
	return docs, nil
}

// SaveAll upserts the documents by id.
func (r *EmbeddingRepo) SaveAll(ctx context.Context, docs []core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO static_embeddings (id, category, content, content_hash, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			content = excluded.content,
			content_hash = excluded.content_hash,
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		blob, err := serializeVector(d.Embedding)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Title, d.Content, contentHash(d.Content), blob); err != nil {
			return fmt.Errorf("failed to save embedding %s: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes the rows for ids that are no longer in the facts file.
func (r *EmbeddingRepo) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM static_embeddings WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete embedding %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (r *EmbeddingRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM static_embeddings`); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	return nil
}
