package prefs

import (
	"log/slog"
	"testing"
)

// TestStoreGetSet tests basic get/set semantics.
func TestStoreGetSet(t *testing.T) {
	s := NewStore(map[string]string{"feeds.section.topstories": "true"}, nil)

	v, ok := s.Get("feeds.section.topstories")
	if !ok || v != "true" {
		t.Errorf("Get: got %v %v", v, ok)
	}

	s.Set("feeds.section.topstories", "false")
	if s.GetBool("feeds.section.topstories", true) {
		t.Error("GetBool should return false after Set")
	}

	if s.GetBool("missing", true) != true {
		t.Error("GetBool should fall back to default for missing keys")
	}
}

// TestStoreObserve tests change notification and cancellation.
func TestStoreObserve(t *testing.T) {
	s := NewStore(nil, nil)

	var gotName, gotValue string
	calls := 0
	cancel := s.Observe(func(name, value string) {
		gotName, gotValue = name, value
		calls++
	})

	s.Set("theme", "dark")
	if calls != 1 || gotName != "theme" || gotValue != "dark" {
		t.Errorf("observer: calls=%d name=%v value=%v", calls, gotName, gotValue)
	}

	cancel()
	s.Set("theme", "light")
	if calls != 1 {
		t.Errorf("observer called after cancel: %d", calls)
	}
}

// TestStoreSnapshot tests that snapshots are copies.
func TestStoreSnapshot(t *testing.T) {
	s := NewStore(map[string]string{"a": "1"}, nil)
	snap := s.Snapshot()
	snap["a"] = "mutated"

	v, _ := s.Get("a")
	if v != "1" {
		t.Error("snapshot mutation leaked into store")
	}
}

// TestOptionsPrefNaming tests the options sub-preference naming pattern.
func TestOptionsPrefNaming(t *testing.T) {
	if OptionsPref("feeds.section.topstories") != "feeds.section.topstories.options" {
		t.Error("OptionsPref naming mismatch")
	}

	feed, ok := FeedFromOptionsPref("feeds.section.topstories.options")
	if !ok || feed != "feeds.section.topstories" {
		t.Errorf("FeedFromOptionsPref: got %v %v", feed, ok)
	}

	if _, ok := FeedFromOptionsPref("feeds.section.topstories"); ok {
		t.Error("non-options pref should not match")
	}
	if _, ok := FeedFromOptionsPref(".options"); ok {
		t.Error("empty feed should not match")
	}
}

// TestOptions tests JSON options parsing with fallback.
func TestOptions(t *testing.T) {
	s := NewStore(map[string]string{
		"feeds.section.topstories.options": `{"provider_name":"pocket","rows":2}`,
		"feeds.section.highlights.options": `{broken`,
	}, slog.Default())

	t.Run("Valid", func(t *testing.T) {
		opts := s.Options("feeds.section.topstories")
		if opts["provider_name"] != "pocket" {
			t.Errorf("opts: got %+v", opts)
		}
	})

	t.Run("MalformedFallsBackToEmpty", func(t *testing.T) {
		opts := s.Options("feeds.section.highlights")
		if opts == nil || len(opts) != 0 {
			t.Errorf("malformed options should be empty object, got %+v", opts)
		}
	})

	t.Run("MissingFallsBackToEmpty", func(t *testing.T) {
		opts := s.Options("feeds.section.unknown")
		if opts == nil || len(opts) != 0 {
			t.Errorf("missing options should be empty object, got %+v", opts)
		}
	})

	t.Run("JSONNullFallsBackToEmpty", func(t *testing.T) {
		opts := ParseOptions("null", "x", nil)
		if opts == nil || len(opts) != 0 {
			t.Errorf("null options should be empty object, got %+v", opts)
		}
	})
}
