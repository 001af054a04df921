package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, Component, string,
// or EventHandler. Nils are skipped so callers can pass conditionals inline.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case Attr:
			if v.Key == "" {
				continue
			}
			if v.Key == "key" {
				if s, ok := v.Value.(string); ok {
					node.Key = s
				}
			}
			node.Props[v.Key] = v.Value

		case []Attr:
			for _, attr := range v {
				if attr.Key != "" {
					node.Props[attr.Key] = attr.Value
				}
			}

		case EventHandler:
			node.Props[v.Event] = v.Handler

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}

		case string:
			node.Children = append(node.Children, Text(v))

		case Component:
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})
		}
	}

	return node
}

// Structural elements used by the activity-stream surface.

func Div(args ...any) *VNode     { return createElement("div", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Header(args ...any) *VNode  { return createElement("header", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Span(args ...any) *VNode    { return createElement("span", args) }
func P(args ...any) *VNode       { return createElement("p", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }
func H4(args ...any) *VNode      { return createElement("h4", args) }
func Ul(args ...any) *VNode      { return createElement("ul", args) }
func Li(args ...any) *VNode      { return createElement("li", args) }
func A(args ...any) *VNode       { return createElement("a", args) }
func Img(args ...any) *VNode     { return createElement("img", args) }
func Button(args ...any) *VNode  { return createElement("button", args) }
func Em(args ...any) *VNode      { return createElement("em", args) }
func Strong(args ...any) *VNode  { return createElement("strong", args) }

// Common attribute constructors.

func Class(v string) Attr        { return Attr{Key: "className", Value: v} }
func ID(v string) Attr           { return Attr{Key: "id", Value: v} }
func Href(v string) Attr         { return Attr{Key: "href", Value: v} }
func Src(v string) Attr          { return Attr{Key: "src", Value: v} }
func Alt(v string) Attr          { return Attr{Key: "alt", Value: v} }
func Title_(v string) Attr       { return Attr{Key: "title", Value: v} }
func Role(v string) Attr         { return Attr{Key: "role", Value: v} }
func AriaLabel(v string) Attr    { return Attr{Key: "aria-label", Value: v} }
func DataAttr(k, v string) Attr  { return Attr{Key: "data-" + k, Value: v} }
func Hidden(v bool) Attr         { return Attr{Key: "hidden", Value: v} }
