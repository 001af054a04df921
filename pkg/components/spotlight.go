package components

import (
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

// SpotlightItem is one highlighted page.
type SpotlightItem struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	ImageURL   string `json:"image_url,omitempty"`
	Label      string `json:"label,omitempty"`
	Bookmarked bool   `json:"bookmarked,omitempty"`
}

// SpotlightProps configures the spotlight highlight list.
type SpotlightProps struct {
	Title string
	Items []SpotlightItem

	// Source identifies this component in user events (e.g., "HIGHLIGHTS").
	Source string

	Telemetry telemetry.Collector
}

// Spotlight renders one view per highlight item.
// An empty item list renders nothing.
func Spotlight(p SpotlightProps) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		if len(p.Items) == 0 {
			return vdom.Nothing()
		}

		collector := p.Telemetry
		if collector == nil {
			collector = telemetry.Discard
		}

		return vdom.Section(
			vdom.Class("spotlight"),
			vdom.When(p.Title != "", func() *vdom.VNode {
				return vdom.H3(vdom.Class("section-title"), vdom.Text(p.Title))
			}),
			vdom.Ul(
				vdom.Class("spotlight-list"),
				vdom.Range(p.Items, func(item SpotlightItem, i int) *vdom.VNode {
					index := i
					return vdom.Li(
						vdom.Key(item.URL),
						vdom.Class("spotlight-item"),
						vdom.A(
							vdom.Href(item.URL),
							vdom.Class("spotlight-link"),
							vdom.OnClick(func() {
								collector.Record(telemetry.UserEvent{
									Event:          "CLICK",
									Page:           PageNewTab,
									Source:         p.Source,
									ActionPosition: index,
								})
							}),
							vdom.When(item.ImageURL != "", func() *vdom.VNode {
								return vdom.Img(vdom.Src(item.ImageURL), vdom.Alt(""), vdom.Class("spotlight-image"))
							}),
							vdom.H4(vdom.Class("spotlight-title"), vdom.Text(item.Title)),
							vdom.When(item.Label != "", func() *vdom.VNode {
								return vdom.Span(vdom.Class("spotlight-label"), vdom.Text(item.Label))
							}),
							vdom.When(item.Bookmarked, func() *vdom.VNode {
								return vdom.Span(vdom.Class("spotlight-bookmark"), vdom.AriaLabel("Bookmarked"))
							}),
						),
					)
				}),
			),
		)
	})
}
