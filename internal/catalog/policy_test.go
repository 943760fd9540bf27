package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Due(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		count  int
		age    time.Duration
		force  bool
		want   bool
	}{
		{"fresh", Policy{}, 10, time.Hour, false, false},
		{"forced", Policy{}, 10, time.Hour, true, true},
		{"empty", Policy{}, 0, 0, false, true},
		{"just under max age", Policy{}, 10, DefaultMaxAge - time.Second, false, false},
		{"exactly max age", Policy{}, 10, DefaultMaxAge, false, true},
		{"older than max age", Policy{}, 10, 30 * 24 * time.Hour, false, true},
		{"future mtime", Policy{}, 10, -time.Hour, false, false},
		{"custom max age", Policy{MaxAge: time.Hour}, 10, 2 * time.Hour, false, true},
		{"negative max age uses default", Policy{MaxAge: -time.Hour}, 10, 2 * time.Hour, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Due(tt.count, tt.age, tt.force))
		})
	}
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a := g.Generate()
	b := g.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}
