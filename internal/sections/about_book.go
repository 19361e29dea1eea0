package sections

import (
	"context"
	"strconv"

	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/language"
)

// AboutBook renders the book description, the journey figures and the
// preview carousel.
func AboutBook(ctx context.Context, v View) *VNode {
	lang := language.Use(ctx)
	t := lang.T
	stats := i18n.Stats(lang.Language)

	return section(sectionOpts{id: "about", testID: "section-about-book"},
		Div(Class("about-grid"),
			Div(Class("about-text"),
				sectionHeading("text-about-heading", t.AboutBook.Heading),
				Div(Class("prose"),
					P(TestID("text-about-paragraph-1"), Text(t.AboutBook.Paragraph1)),
					P(TestID("text-about-paragraph-2"), Text(t.AboutBook.Paragraph2)),
				),
				Div(Class("stats"),
					stat("stat-miles", stats.Distance, t.AboutBook.StatMiles),
					stat("stat-countries", strconv.Itoa(stats.Countries), t.AboutBook.StatCountries),
					stat("stat-stories", strconv.Itoa(stats.Journeys), t.AboutBook.StatJourney),
				),
			),
			Div(Class("about-media"),
				BookPreviewCarousel(ctx, v),
				P(Class("available"), Text(t.AboutBook.Available)),
			),
		),
	)
}

func stat(testID, value, label string) *VNode {
	return Div(Class("stat"), TestID(testID),
		P(Class("stat-value"), Text(value)),
		P(Class("stat-label"), Text(label)),
	)
}

// BookPreviewCarousel renders the preview slides. Only the slide at
// v.Carousel is visible; the controls move it and wrap at both ends.
// Static pages show every slide and no controls.
func BookPreviewCarousel(ctx context.Context, v View) *VNode {
	t := language.Use(ctx).T
	current := v.Carousel
	if current < 0 || current >= len(PreviewImages) {
		current = 0
	}

	return Div(Class("carousel"), TestID("carousel-book-previews"),
		Data("index", strconv.Itoa(current)),
		Div(Class("carousel-track"),
			Range(PreviewImages, func(img PreviewImage, i int) *VNode {
				return Div(
					Key(img.Fallback),
					Class("carousel-item"),
					Data("active", strconv.FormatBool(v.Static || i == current)),
					AttrIf(!v.Static && i != current, AttrOf("hidden", true)),
					AriaLabel(img.Label),
					Div(Class("preview-frame"),
						Picture(
							Source(SrcSet(v.asset(img.WebP)), Type("image/webp")),
							Img(
								Src(v.asset(img.Fallback)),
								Alt(img.Alt),
								Class("preview-image"),
								Loading("lazy"),
								TestID("img-preview-"+strconv.Itoa(i)),
							),
						),
					),
				)
			}),
		),
		If(!v.Static, Form(
			Method("post"),
			Action(v.URL("carousel")),
			Class("carousel-controls"),
			carouselButton(Previous, t.AboutBook.PreviousSlide, chevronLeftIcon()),
			carouselButton(Next, t.AboutBook.NextSlide, chevronRightIcon()),
		)),
	)
}

func carouselButton(d Direction, label string, icon *VNode) *VNode {
	return Button(
		Type("submit"),
		Name("dir"),
		Value(string(d)),
		Class("carousel-button"),
		OnClick("carousel"),
		Arg("dir", string(d)),
		AriaLabel(label),
		TestID("button-carousel-"+string(d)),
		icon,
	)
}
