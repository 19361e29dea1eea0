package el

import (
	"reflect"
	"testing"

	"github.com/patagonia-pages/bookpage/pkg/vdom"
)

var (
	_ vdom.VNode = VNode{}
	_ vdom.VKind = VKind(0)
	_ vdom.Props = Props{}
	_ vdom.Attr  = Attr{}
)

func TestElementConstructorsMatchVDOM(t *testing.T) {
	args := []any{
		vdom.ID("root"),
		vdom.Class("one", "two"),
		vdom.OnClick("menu"),
		"hello",
		vdom.Span("child"),
	}

	got := Div(args...)
	want := vdom.Div(args...)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Div() mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestAttributeHelpersMatchVDOM(t *testing.T) {
	cases := []struct {
		name string
		got  Attr
		want vdom.Attr
	}{
		{"testid", TestID("section-hero"), vdom.TestID("section-hero")},
		{"aria", AriaLabel("Toggle menu"), vdom.AriaLabel("Toggle menu")},
		{"srcset", SrcSet("/a.webp"), vdom.SrcSet("/a.webp")},
		{"arg", Arg("dir", "next"), vdom.Arg("dir", "next")},
		{"required", Required(), vdom.Required()},
	}

	for _, tc := range cases {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Errorf("%s mismatch: got %#v, want %#v", tc.name, tc.got, tc.want)
		}
	}
}

func TestHelpersMatchVDOM(t *testing.T) {
	items := []string{"a", "b"}
	fn := func(s string, i int) *VNode { return Li(Key(i), s) }

	if !reflect.DeepEqual(Range(items, fn), vdom.Range(items, fn)) {
		t.Error("Range mismatch")
	}
	if If(false, Div()) != nil {
		t.Error("If(false) should be nil")
	}
	if !reflect.DeepEqual(Textf("%d", 7), vdom.Text("7")) {
		t.Error("Textf mismatch")
	}
}
