package core

import "time"

const (
	TwinName          = "TwinBot"
	TwinUserAgent     = "TwinBot/0.1"
	TwinRepositoryURL = "https://github.com/sandevgo/twinbot"
	TwinVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type DocumentType string

const (
	DocumentStatic   DocumentType = "static"
	DocumentCalendar DocumentType = "calendar"
)

// Document is a retrievable unit of personal knowledge.
// Date is only set for calendar documents.
type Document struct {
	ID        string       `json:"id"`
	Type      DocumentType `json:"type"`
	Title     string       `json:"title,omitempty"`
	Content   string       `json:"content"`
	Embedding []float32    `json:"embedding,omitempty"`
	Date      time.Time    `json:"date,omitzero"`
}

func (d Document) IsCalendar() bool {
	return d.Type == DocumentCalendar
}

// ScoredDocument is created fresh for every query and never cached.
type ScoredDocument struct {
	Document
	Score          float64 `json:"score"`
	SemanticScore  float64 `json:"semantic_score"`
	KeywordMatches int     `json:"keyword_matches"`
}

type RetrievalResult struct {
	Documents  []ScoredDocument
	Temporal   bool
	Threshold  float64
	Limit      int
	WindowDays int
}

// TopScore returns the highest score among the retained documents.
func (r RetrievalResult) TopScore() float64 {
	var top float64
	for i, d := range r.Documents {
		if i == 0 || d.Score > top {
			top = d.Score
		}
	}
	return top
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Source struct {
	Type    DocumentType `json:"type"`
	Preview string       `json:"snippet"`
	Score   float64      `json:"relevanceScore"`
}

// Answer is what a caller receives for a single question.
type Answer struct {
	Text       string   `json:"response"`
	Chunks     []string `json:"chunks"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}

// StaticFact is a pre-authored piece of background knowledge about the subject.
type StaticFact struct {
	ID       string `json:"id"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
}

type CorpusStatus struct {
	Valid          bool      `json:"valid"`
	FetchedAt      time.Time `json:"fetched_at"`
	WindowDays     int       `json:"window_days"`
	StaticCount    int       `json:"static_count"`
	CalendarCount  int       `json:"calendar_count"`
	CalendarStatus string    `json:"calendar_status"`
}
