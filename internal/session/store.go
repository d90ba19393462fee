package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aescanero/scheme-screener/internal/scheme"
)

// ErrNotFound is returned when a session does not exist or has expired
var ErrNotFound = errors.New("session not found")

// State is what a session keeps between the results and finalize steps
type State struct {
	Language  string          `json:"language"`
	Matched   []scheme.Scheme `json:"matched"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists session state by id
type Store interface {
	Put(ctx context.Context, id string, state *State) error
	Get(ctx context.Context, id string) (*State, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// NewID returns a new random session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like a session id issued by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func encode(state *State) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("session state is nil")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &state, nil
}
