// Package components holds the new-tab UI components: story cards,
// spotlight highlights, and the first-run onboarding overlay. Components
// are pure functions from props to vdom trees; interaction handlers emit
// telemetry user events.
package components

import (
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

// PageNewTab is the page identifier reported in user events.
const PageNewTab = "NEW_TAB"

// Story is one story card.
type Story struct {
	GUID        string `json:"guid"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	ImageSrc    string `json:"image_src,omitempty"`
	HostName    string `json:"hostname,omitempty"`
	Description string `json:"description,omitempty"`
}

// Topic is one entry in the "read more" block.
type Topic struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StoriesProps configures the story card list.
type StoriesProps struct {
	Title            string
	Stories          []Story
	Topics           []Topic
	ReadMoreEndpoint string

	// Source identifies this component in user events (e.g., "TOP_STORIES").
	Source string

	Telemetry telemetry.Collector
}

// Stories renders one card per story plus, when topics are configured,
// exactly one "read more" block with one link per topic.
// An empty story list renders nothing.
func Stories(p StoriesProps) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		if len(p.Stories) == 0 {
			return vdom.Nothing()
		}

		collector := p.Telemetry
		if collector == nil {
			collector = telemetry.Discard
		}

		cards := vdom.Range(p.Stories, func(s Story, i int) *vdom.VNode {
			index := i
			return vdom.Li(
				vdom.Key(s.GUID),
				vdom.Class("story-item"),
				vdom.A(
					vdom.Href(s.URL),
					vdom.Class("story-link"),
					vdom.OnClick(func() {
						collector.Record(telemetry.UserEvent{
							Event:          "CLICK",
							Page:           PageNewTab,
							Source:         p.Source,
							ActionPosition: index,
						})
					}),
					vdom.When(s.ImageSrc != "", func() *vdom.VNode {
						return vdom.Img(vdom.Src(s.ImageSrc), vdom.Alt(""), vdom.Class("story-image"))
					}),
					vdom.H4(vdom.Class("story-title"), vdom.Text(s.Title)),
					vdom.When(s.Description != "", func() *vdom.VNode {
						return vdom.P(vdom.Class("story-description"), vdom.Text(s.Description))
					}),
					vdom.When(s.HostName != "", func() *vdom.VNode {
						return vdom.Span(vdom.Class("story-host"), vdom.Text(s.HostName))
					}),
				),
			)
		})

		return vdom.Section(
			vdom.Class("stories"),
			vdom.When(p.Title != "", func() *vdom.VNode {
				return vdom.H3(vdom.Class("section-title"), vdom.Text(p.Title))
			}),
			vdom.Ul(vdom.Class("stories-list"), cards),
			readMore(p.Topics, p.ReadMoreEndpoint),
		)
	})
}

// readMore renders the single topics block, or nothing without topics.
func readMore(topics []Topic, endpoint string) *vdom.VNode {
	if len(topics) == 0 {
		return nil
	}
	return vdom.Div(
		vdom.Class("stories-read-more"),
		vdom.Span(vdom.Class("read-more-label"), vdom.Text("Popular Topics:")),
		vdom.Ul(
			vdom.Class("topics-list"),
			vdom.Range(topics, func(t Topic, _ int) *vdom.VNode {
				return vdom.Li(
					vdom.Key(t.Name),
					vdom.A(vdom.Href(t.URL), vdom.Class("topic-link"), vdom.Text(t.Name)),
				)
			}),
		),
		vdom.When(endpoint != "", func() *vdom.VNode {
			return vdom.A(vdom.Href(endpoint), vdom.Class("read-more-link"), vdom.Text("Read More"))
		}),
	)
}
