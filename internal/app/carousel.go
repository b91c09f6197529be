package app

import (
	"context"
	"time"

	"eneagramas-site/internal/domain"
)

// Carousel rotates through testimonials. It is not safe for concurrent use;
// each stream owns its own.
type Carousel struct {
	items []domain.Testimonial
	idx   int
}

func NewCarousel(items []domain.Testimonial) *Carousel {
	return &Carousel{items: items}
}

func (c *Carousel) Current() (domain.Testimonial, bool) {
	if len(c.items) == 0 {
		return domain.Testimonial{}, false
	}
	return c.items[c.idx], true
}

// Advance moves to the next testimonial, wrapping at the end.
func (c *Carousel) Advance() (domain.Testimonial, bool) {
	if len(c.items) == 0 {
		return domain.Testimonial{}, false
	}
	c.idx = (c.idx + 1) % len(c.items)
	return c.items[c.idx], true
}

// Run emits the current testimonial, then the next one on every tick, until
// ctx is done.
func (c *Carousel) Run(ctx context.Context, interval time.Duration, emit func(domain.Testimonial)) {
	if t, ok := c.Current(); ok {
		emit(t)
	} else {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t, _ := c.Advance()
			emit(t)
		}
	}
}
