package sections

// BuiltinKind enumerates the section kinds constructed at registry init.
// Each kind binds a feed preference name to a constructor, so the set of
// built-ins is checked at compile time instead of by string dispatch.
type BuiltinKind int

const (
	BuiltinTopStories BuiltinKind = iota
	BuiltinHighlights
)

// String returns the feed preference name for the kind.
func (k BuiltinKind) String() string {
	if def, ok := builtins[k]; ok {
		return def.feedPref
	}
	return "unknown"
}

// builtinDef binds a feed preference name to a section constructor.
type builtinDef struct {
	feedPref  string
	construct func(options map[string]any) Section
}

// builtins is the built-in section table. Options come from the feed's
// options sub-preference, already parsed (malformed JSON yields {}).
var builtins = map[BuiltinKind]builtinDef{
	BuiltinTopStories: {
		feedPref: "feeds.section.topstories",
		construct: func(options map[string]any) Section {
			return Section{
				ID: "topstories",
				Pref: PrefInfo{
					Feed:        "feeds.section.topstories",
					TitleString: "header_recommended_by",
					DescString:  "prefs_topstories_description",
				},
				ShouldHidePref: false,
				EventSource:    "TOP_STORIES",
				Icon:           "pocket",
				Title:          "header_recommended_by",
				MaxRows:        1,
				ContextMenuOptions: []string{
					"CheckBookmark", "SaveToPocket", "Separator",
					"OpenInNewWindow", "OpenInPrivateWindow", "Separator",
					"BlockUrl",
				},
				InfoOption: map[string]any{
					"header": map[string]any{"id": "pocket_feedback_header"},
					"body":   map[string]any{"id": "pocket_feedback_body"},
				},
				EmptyState: map[string]any{
					"message": map[string]any{"id": "topstories_empty_state"},
					"icon":    "check",
				},
				Options: options,
				Rows:    []Row{},
			}
		},
	},
	BuiltinHighlights: {
		feedPref: "feeds.section.highlights",
		construct: func(options map[string]any) Section {
			return Section{
				ID: "highlights",
				Pref: PrefInfo{
					Feed:        "feeds.section.highlights",
					TitleString: "settings_pane_highlights_header",
					DescString:  "settings_pane_highlights_body2",
				},
				ShouldHidePref: false,
				EventSource:    "HIGHLIGHTS",
				Icon:           "highlights",
				Title:          "highlights_title",
				MaxRows:        3,
				ContextMenuOptions: []string{
					"CheckBookmark", "SaveToPocket", "Separator",
					"OpenInNewWindow", "OpenInPrivateWindow", "Separator",
					"BlockUrl", "DeleteUrl",
				},
				EmptyState: map[string]any{
					"message": map[string]any{"id": "highlights_empty_state"},
					"icon":    "highlights",
				},
				Options: options,
				Rows:    []Row{},
			}
		},
	},
}

// BuiltinKinds returns all known built-in kinds.
func BuiltinKinds() []BuiltinKind {
	return []BuiltinKind{BuiltinTopStories, BuiltinHighlights}
}

// BuiltinByFeed returns the kind whose feed preference matches feedPref.
func BuiltinByFeed(feedPref string) (BuiltinKind, bool) {
	for kind, def := range builtins {
		if def.feedPref == feedPref {
			return kind, true
		}
	}
	return 0, false
}
