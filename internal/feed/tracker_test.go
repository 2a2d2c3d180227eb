package feed

import (
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerIndependentRows(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.Begin("a"))
	assert.True(t, tr.Begin("b"))
	assert.False(t, tr.Begin("a"))

	assert.True(t, tr.Has("a"))
	assert.True(t, tr.Has("b"))
	assert.Equal(t, []string{"a", "b"}, tr.IDs())

	tr.End("a")
	assert.False(t, tr.Has("a"))
	assert.True(t, tr.Has("b"))
}

func TestTrackerConcurrentUse(t *testing.T) {
	tr := NewTracker()
	var wg gosync.WaitGroup

	for _, id := range []string{"1", "2", "3", "4"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			tr.Begin(id)
			tr.End(id)
		}(id)
	}
	wg.Wait()

	assert.Empty(t, tr.IDs())
}
