package app

import "time"

// Options tunes the timers of the application service.
type Options struct {
	// SearchDebounce is the quiet period before a debounced search runs;
	// zero means 500ms.
	SearchDebounce time.Duration
	// ConfirmDelay is how long a confirmed submission is shown before the
	// draft resets. Zero resets immediately.
	ConfirmDelay time.Duration
	// Now overrides the clock used to date submissions.
	Now func() time.Time
}

const (
	defaultSearchDebounce = 500 * time.Millisecond

	// initialListLimit caps the unfiltered lists shown before a search.
	initialListLimit = 20
	// minSearchRunes is the shortest query that hits the search endpoints.
	minSearchRunes = 2
)

func (o Options) withDefaults() Options {
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = defaultSearchDebounce
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
