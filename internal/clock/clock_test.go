package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedClock(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewSimulatedClock(start)

	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	target := start.Add(time.Hour)
	assert.Equal(t, time.Hour-90*time.Second, c.Until(target))

	c.Set(target)
	assert.Equal(t, time.Duration(0), c.Until(target))
}

func TestRealClock_Until(t *testing.T) {
	c := NewRealClock()
	assert.Greater(t, c.Until(time.Now().Add(time.Minute)), 50*time.Second)
}
