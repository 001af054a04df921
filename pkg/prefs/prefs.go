// Package prefs provides the in-process preference store that seeds and
// drives the section registry.
//
// Preferences are string-keyed values. Built-in feeds carry an options
// sub-preference ("<feed>.options") holding a JSON object; malformed JSON
// is never fatal - it is logged and treated as an empty object.
package prefs

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/Hwangyonghwan/activity-stream/internal/errors"
)

// OptionsSuffix is appended to a feed preference name to form the name of
// its JSON options sub-preference.
const OptionsSuffix = ".options"

// OptionsPref returns the options sub-preference name for a feed.
func OptionsPref(feed string) string {
	return feed + OptionsSuffix
}

// FeedFromOptionsPref returns the feed preference name if name follows the
// built-in options naming pattern.
func FeedFromOptionsPref(name string) (feed string, ok bool) {
	if !strings.HasSuffix(name, OptionsSuffix) {
		return "", false
	}
	feed = strings.TrimSuffix(name, OptionsSuffix)
	if feed == "" {
		return "", false
	}
	return feed, true
}

// Observer receives preference change notifications.
type Observer func(name, value string)

// Store is a thread-safe preference store with change observation.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	observers map[int]Observer
	nextObs   int
	logger    *slog.Logger
}

// NewStore creates a Store seeded with the given initial values.
func NewStore(initial map[string]string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{
		values:    values,
		observers: make(map[int]Observer),
		logger:    logger,
	}
}

// Get returns the raw value of a preference.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// GetBool returns a preference as a bool, or def when absent or non-boolean.
func (s *Store) GetBool(name string, def bool) bool {
	v, ok := s.Get(name)
	if !ok {
		return def
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// Set stores a value and notifies observers.
func (s *Store) Set(name, value string) {
	s.mu.Lock()
	s.values[name] = value
	obs := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.Unlock()

	for _, o := range obs {
		o(name, value)
	}
}

// Snapshot returns a copy of all current preference values.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Observe registers an observer for all preference changes.
// The returned function cancels the observation.
func (s *Store) Observe(o Observer) (cancel func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Options returns the parsed JSON options object for a feed.
// A missing or malformed options preference yields an empty object.
func (s *Store) Options(feed string) map[string]any {
	raw, ok := s.Get(OptionsPref(feed))
	if !ok {
		return map[string]any{}
	}
	return ParseOptions(raw, feed, s.logger)
}

// ParseOptions parses a JSON options string. Malformed JSON is logged and
// treated as an empty object - never propagated.
func ParseOptions(raw, feed string, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == "" {
		return map[string]any{}
	}
	var opts map[string]any
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		logger.Warn("malformed options preference",
			"feed", feed,
			"error", errors.New("AS020").Wrap(err))
		return map[string]any{}
	}
	if opts == nil {
		return map[string]any{}
	}
	return opts
}
