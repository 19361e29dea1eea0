package sections

import (
	. "github.com/patagonia-pages/bookpage/el"
)

// icon renders a 24x24 stroke icon from path data.
func icon(class string, paths ...string) *VNode {
	children := []any{
		ViewBox("0 0 24 24"),
		Fill("none"),
		AttrOf("stroke", "currentColor"),
		AttrOf("stroke-width", "2"),
		AttrOf("stroke-linecap", "round"),
		AttrOf("stroke-linejoin", "round"),
		Class(class),
		AriaHidden(true),
	}
	for _, d := range paths {
		children = append(children, Path(D(d)))
	}
	return Svg(children...)
}

func menuIcon() *VNode {
	return icon("icon", "M4 6h16", "M4 12h16", "M4 18h16")
}

func closeIcon() *VNode {
	return icon("icon", "M18 6 6 18", "M6 6l12 12")
}

func chevronLeftIcon() *VNode {
	return icon("icon", "m15 18-6-6 6-6")
}

func chevronRightIcon() *VNode {
	return icon("icon", "m9 18 6-6-6-6")
}

func socialIcon(name string) *VNode {
	switch name {
	case "Instagram":
		return icon("icon",
			"M7 2h10a5 5 0 0 1 5 5v10a5 5 0 0 1-5 5H7a5 5 0 0 1-5-5V7a5 5 0 0 1 5-5z",
			"M16 11.37A4 4 0 1 1 12.63 8 4 4 0 0 1 16 11.37z",
			"M17.5 6.5h.01",
		)
	case "Facebook":
		return icon("icon", "M18 2h-3a5 5 0 0 0-5 5v3H7v4h3v8h4v-8h3l1-4h-4V7a1 1 0 0 1 1-1h3z")
	case "X":
		return icon("icon", "M4 4l16 16", "M20 4 4 20")
	}
	return nil
}
