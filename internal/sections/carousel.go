package sections

import "sync"

// PreviewImage is a slide of the book preview carousel.
type PreviewImage struct {
	// WebP and Fallback are asset names of the two encodings.
	WebP     string
	Fallback string
	Alt      string
	Label    string
}

// PreviewImages are the carousel slides in order.
var PreviewImages = []PreviewImage{
	{
		WebP:     "images/cover.webp",
		Fallback: "images/cover.jpg",
		Alt:      "Book Cover - Un Andrés Más",
		Label:    "Portada",
	},
	{
		WebP:     "images/preview.webp",
		Fallback: "images/preview.jpg",
		Alt:      "Ebook Preview - Un Andrés Más",
		Label:    "Vista interior",
	},
}

// Direction moves the carousel.
type Direction string

const (
	Previous Direction = "prev"
	Next     Direction = "next"
)

// Carousel is the slide position of a session. Moving past either end
// wraps around.
type Carousel struct {
	mu      sync.Mutex
	index   int
	count   int
	subs    map[uint64]func(int)
	nextSub uint64
}

// NewCarousel returns a carousel over count slides positioned on the
// first one.
func NewCarousel(count int) *Carousel {
	if count < 1 {
		count = 1
	}
	return &Carousel{count: count, subs: make(map[uint64]func(int))}
}

// Index returns the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len returns the number of slides.
func (c *Carousel) Len() int {
	return c.count
}

// Next moves to the following slide.
func (c *Carousel) Next() int {
	return c.Move(Next)
}

// Prev moves to the preceding slide.
func (c *Carousel) Prev() int {
	return c.Move(Previous)
}

// Move steps the carousel in direction d and returns the new index.
// Unknown directions leave it in place.
func (c *Carousel) Move(d Direction) int {
	c.mu.Lock()
	switch d {
	case Next:
		c.index = (c.index + 1) % c.count
	case Previous:
		c.index = (c.index - 1 + c.count) % c.count
	default:
		i := c.index
		c.mu.Unlock()
		return i
	}
	i := c.index
	subs := make([]func(int), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(i)
	}
	return i
}

// Subscribe registers fn for index changes and returns a function that
// removes it.
func (c *Carousel) Subscribe(fn func(int)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}
