package catalog

import "time"

// DefaultMaxAge is how old the catalog file may get before a refresh is due.
const DefaultMaxAge = 7 * 24 * time.Hour

// Policy decides whether a refresh is due.
type Policy struct {
	// MaxAge is the catalog age at which a refresh becomes due.
	// Zero means DefaultMaxAge.
	MaxAge time.Duration
}

// Due reports whether a refresh should run: forced, empty, or at least MaxAge old.
func (p Policy) Due(count int, age time.Duration, force bool) bool {
	return force || count == 0 || age >= p.maxAge()
}

func (p Policy) maxAge() time.Duration {
	if p.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return p.MaxAge
}
