// Package sections implements the section registry at the heart of the
// activity stream: feeds register named content sections (Top Stories,
// Highlights), the registry emits lifecycle events, and the feed adapter
// forwards them as broadcasts to connected content surfaces.
package sections

// Row is one display row of a section (a story, a highlight, ...).
type Row map[string]any

// PrefInfo describes the preferences controlling a section.
type PrefInfo struct {
	// Feed is the preference name gating the feed that fills the section.
	Feed string `json:"feed"`

	// TitleString is the localization key for the pref checkbox title.
	TitleString string `json:"title_string,omitempty"`

	// DescString is the localization key for the pref checkbox description.
	DescString string `json:"desc_string,omitempty"`
}

// Section is a registered content section descriptor.
// The ID is immutable once the section is added to a registry.
type Section struct {
	ID                 string         `json:"id"`
	Pref               PrefInfo       `json:"pref"`
	ShouldHidePref     bool           `json:"shouldHidePref,omitempty"`
	EventSource        string         `json:"eventSource,omitempty"`
	Icon               string         `json:"icon,omitempty"`
	Title              string         `json:"title,omitempty"`
	MaxRows            int            `json:"maxRows,omitempty"`
	ContextMenuOptions []string       `json:"contextMenuOptions,omitempty"`
	InfoOption         map[string]any `json:"infoOption,omitempty"`
	EmptyState         map[string]any `json:"emptyState,omitempty"`
	Options            map[string]any `json:"options,omitempty"`

	// Enabled is a tri-state: nil means unset (never toggled).
	Enabled *bool `json:"enabled,omitempty"`

	// Rows is the section's display content. Disabling a section
	// always clears it.
	Rows []Row `json:"rows"`
}

// IsEnabled returns the enabled state, treating unset as disabled.
func (s *Section) IsEnabled() bool {
	return s.Enabled != nil && *s.Enabled
}

// Clone returns a copy of the section safe to hand to observers.
// Maps and slices are copied one level deep; row contents are shared.
func (s Section) Clone() Section {
	out := s
	if s.Enabled != nil {
		e := *s.Enabled
		out.Enabled = &e
	}
	if s.ContextMenuOptions != nil {
		out.ContextMenuOptions = append([]string(nil), s.ContextMenuOptions...)
	}
	if s.Rows != nil {
		out.Rows = append([]Row(nil), s.Rows...)
	}
	out.InfoOption = cloneMap(s.InfoOption)
	out.EmptyState = cloneMap(s.EmptyState)
	out.Options = cloneMap(s.Options)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Patch is a partial section update. Nil fields leave the descriptor
// unchanged; to clear rows, set Rows to an empty non-nil slice.
type Patch struct {
	Title              *string        `json:"title,omitempty"`
	Icon               *string        `json:"icon,omitempty"`
	MaxRows            *int           `json:"maxRows,omitempty"`
	ContextMenuOptions []string       `json:"contextMenuOptions,omitempty"`
	InfoOption         map[string]any `json:"infoOption,omitempty"`
	EmptyState         map[string]any `json:"emptyState,omitempty"`
	Options            map[string]any `json:"options,omitempty"`
	Enabled            *bool          `json:"enabled,omitempty"`
	Rows               []Row          `json:"rows,omitempty"`
}

// apply merges the patch into the section.
func (p Patch) apply(s *Section) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Icon != nil {
		s.Icon = *p.Icon
	}
	if p.MaxRows != nil {
		s.MaxRows = *p.MaxRows
	}
	if p.ContextMenuOptions != nil {
		s.ContextMenuOptions = append([]string(nil), p.ContextMenuOptions...)
	}
	if p.InfoOption != nil {
		s.InfoOption = cloneMap(p.InfoOption)
	}
	if p.EmptyState != nil {
		s.EmptyState = cloneMap(p.EmptyState)
	}
	if p.Options != nil {
		s.Options = cloneMap(p.Options)
	}
	if p.Enabled != nil {
		e := *p.Enabled
		s.Enabled = &e
	}
	if p.Rows != nil {
		s.Rows = append([]Row(nil), p.Rows...)
	}
}

// boolPtr is a convenience for building patches.
func boolPtr(b bool) *bool { return &b }
