package components

import (
	"github.com/Hwangyonghwan/activity-stream/pkg/sections"
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

// PageProps configures the new-tab page.
type PageProps struct {
	// Sections is the registry snapshot to render, in order.
	Sections []sections.Section

	// FirstRun shows the onboarding overlay.
	FirstRun bool

	// OnOverlayStart and OnOverlayDismiss wire the overlay controls.
	OnOverlayStart   func()
	OnOverlayDismiss func()

	Telemetry telemetry.Collector
}

// NewTabPage composes the full new-tab surface from a sections snapshot.
// Disabled sections and sections with unset enabled state are skipped.
func NewTabPage(p PageProps) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		body := vdom.Range(p.Sections, func(s sections.Section, _ int) *vdom.VNode {
			if !s.IsEnabled() {
				return nil
			}
			return renderSection(s, p.Telemetry)
		})

		return vdom.Main(
			vdom.ID("activity-stream"),
			vdom.Class("newtab-page"),
			vdom.When(p.FirstRun, func() *vdom.VNode {
				overlay := StartupOverlay(StartupOverlayProps{
					OnStart:   p.OnOverlayStart,
					OnDismiss: p.OnOverlayDismiss,
					Telemetry: p.Telemetry,
				})
				return overlay.Render()
			}),
			body,
		)
	})
}

// renderSection maps a section descriptor to its component by id.
func renderSection(s sections.Section, collector telemetry.Collector) *vdom.VNode {
	if len(s.Rows) == 0 {
		return emptyState(s)
	}

	switch s.ID {
	case "highlights":
		comp := Spotlight(SpotlightProps{
			Title:     s.Title,
			Items:     spotlightItems(s.Rows),
			Source:    s.EventSource,
			Telemetry: collector,
		})
		return comp.Render()
	default:
		comp := Stories(StoriesProps{
			Title:            s.Title,
			Stories:          stories(s.Rows),
			Topics:           topics(s.Options),
			ReadMoreEndpoint: optString(s.Options, "read_more_endpoint"),
			Source:           s.EventSource,
			Telemetry:        collector,
		})
		return comp.Render()
	}
}

// emptyState renders a section's configured empty-state message.
func emptyState(s sections.Section) *vdom.VNode {
	if s.EmptyState == nil {
		return nil
	}
	msg, _ := s.EmptyState["message"].(map[string]any)
	id := ""
	if msg != nil {
		id, _ = msg["id"].(string)
	}
	if id == "" {
		return nil
	}
	return vdom.Section(
		vdom.Class("section-empty"),
		vdom.DataAttr("section", s.ID),
		vdom.Em(vdom.Text(id)),
	)
}

// stories converts section rows to story props.
func stories(rows []sections.Row) []Story {
	out := make([]Story, 0, len(rows))
	for _, r := range rows {
		out = append(out, Story{
			GUID:        rowString(r, "guid"),
			Title:       rowString(r, "title"),
			URL:         rowString(r, "url"),
			ImageSrc:    rowString(r, "image_src"),
			HostName:    rowString(r, "hostname"),
			Description: rowString(r, "description"),
		})
	}
	return out
}

// spotlightItems converts section rows to spotlight props.
func spotlightItems(rows []sections.Row) []SpotlightItem {
	out := make([]SpotlightItem, 0, len(rows))
	for _, r := range rows {
		bookmarked, _ := r["bookmarked"].(bool)
		out = append(out, SpotlightItem{
			URL:        rowString(r, "url"),
			Title:      rowString(r, "title"),
			ImageURL:   rowString(r, "image_url"),
			Label:      rowString(r, "label"),
			Bookmarked: bookmarked,
		})
	}
	return out
}

// topics reads the topics list from parsed section options.
func topics(options map[string]any) []Topic {
	raw, _ := options["topics"].([]any)
	out := make([]Topic, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		url, _ := m["url"].(string)
		if name == "" {
			continue
		}
		out = append(out, Topic{Name: name, URL: url})
	}
	return out
}

func rowString(r sections.Row, key string) string {
	v, _ := r[key].(string)
	return v
}

func optString(options map[string]any, key string) string {
	v, _ := options[key].(string)
	return v
}
