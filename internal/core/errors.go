package core

import (
	"errors"
	"fmt"

	"github.com/sandevgo/twinbot/pkg/vecmath"
)

var (
	ErrDimensionMismatch = vecmath.ErrDimensionMismatch
	ErrDataUnavailable   = errors.New("no personal data available")
)

// ProviderError wraps a failure of an upstream embedding, generation or calendar service.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
