package core

import "context"

type MessagesRepository interface {
	AddMessage(ctx context.Context, sessionID string, msg Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type FactSource interface {
	Facts(ctx context.Context) ([]StaticFact, error)
}

// EmbeddingRepository persists static-fact embeddings keyed by content identity.
type EmbeddingRepository interface {
	Load(ctx context.Context) ([]Document, error)
	SaveAll(ctx context.Context, docs []Document) error
	Delete(ctx context.Context, ids []string) error
	Clear(ctx context.Context) error
}
