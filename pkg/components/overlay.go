package components

import (
	"github.com/Hwangyonghwan/activity-stream/pkg/telemetry"
	"github.com/Hwangyonghwan/activity-stream/pkg/vdom"
)

// SourceOnboarding identifies overlay interactions in user events.
const SourceOnboarding = "ONBOARDING"

// StartupOverlayProps configures the first-run onboarding overlay.
type StartupOverlayProps struct {
	Title   string
	Message string

	// OnStart runs when the user accepts onboarding.
	OnStart func()

	// OnDismiss runs when the user skips onboarding.
	OnDismiss func()

	Telemetry telemetry.Collector
}

// StartupOverlay renders the first-run overlay with accept and skip
// controls. Both controls emit a user event before invoking their
// callback.
func StartupOverlay(p StartupOverlayProps) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		collector := p.Telemetry
		if collector == nil {
			collector = telemetry.Discard
		}

		title := p.Title
		if title == "" {
			title = "Welcome to your new tab"
		}

		return vdom.Div(
			vdom.Class("startup-overlay"),
			vdom.Role("dialog"),
			vdom.AriaLabel(title),
			vdom.Div(
				vdom.Class("overlay-content"),
				vdom.H2(vdom.Class("overlay-title"), vdom.Text(title)),
				vdom.When(p.Message != "", func() *vdom.VNode {
					return vdom.P(vdom.Class("overlay-message"), vdom.Text(p.Message))
				}),
				vdom.Div(
					vdom.Class("overlay-actions"),
					vdom.Button(
						vdom.Class("overlay-start"),
						vdom.OnClick(func() {
							collector.Record(telemetry.UserEvent{
								Event:  "CLICK",
								Page:   PageNewTab,
								Source: SourceOnboarding,
							})
							if p.OnStart != nil {
								p.OnStart()
							}
						}),
						vdom.Text("Get started"),
					),
					vdom.Button(
						vdom.Class("overlay-skip"),
						vdom.OnClick(func() {
							collector.Record(telemetry.UserEvent{
								Event:  "SKIP",
								Page:   PageNewTab,
								Source: SourceOnboarding,
							})
							if p.OnDismiss != nil {
								p.OnDismiss()
							}
						}),
						vdom.Text("Skip"),
					),
				),
			),
		)
	})
}
