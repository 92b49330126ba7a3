package sinks

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Event is the payload delivered downstream for one resolved lookup.
type Event struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Path       []string  `json:"path"`
	Value      any       `json:"value"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// NewEvent builds the Event for value resolved at path within source.
// The ID is stable for identical (source, path, value) triples.
func NewEvent(source string, path []string, value any) (Event, error) {
	id, err := LookupID(source, path, value)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         id,
		Source:     source,
		Path:       append([]string(nil), path...),
		Value:      value,
		ResolvedAt: time.Now().UTC(),
	}, nil
}

// LookupID hashes source, path and the JSON encoding of value.
// encoding/json sorts map keys, which keeps the encoding canonical for decoded documents.
func LookupID(source string, path []string, value any) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode lookup value: %w", err)
	}

	h := sha1.New() //nolint:gosec // non-cryptographic id generation
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(path, "\x1f")))
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}
