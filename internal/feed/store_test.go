package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/insyd/internal/model"
)

func TestNewStoreIsLoadingAndEmpty(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Loading())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())
}

func TestReplaceDiscardsPrevious(t *testing.T) {
	s := NewStore()
	s.Replace(sampleFeed())

	s.Replace([]model.Notification{{ID: "9", Type: model.CategoryFollow}})

	assert.Equal(t, []string{"9"}, ids(s.Snapshot()))
}

func TestReplaceWithEmpty(t *testing.T) {
	s := NewStore()
	s.Replace(sampleFeed())

	s.Replace(nil)

	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Snapshot())
}

func TestReplaceCopiesInput(t *testing.T) {
	s := NewStore()
	in := sampleFeed()
	s.Replace(in)

	in[0].ID = "mutated"

	assert.Equal(t, "1", s.Snapshot()[0].ID)
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.Replace(sampleFeed())
	before := s.Version()

	assert.True(t, s.Remove("3"))
	assert.False(t, s.Remove("3"))

	assert.Equal(t, []string{"1", "2", "4", "5", "6"}, ids(s.Snapshot()))
	assert.Equal(t, before+1, s.Version())
}

func TestDoneLoading(t *testing.T) {
	s := NewStore()

	s.DoneLoading()

	assert.False(t, s.Loading())
	assert.Equal(t, 0, s.Len())
}

func TestRemovedIDAbsentFromEveryProjection(t *testing.T) {
	s := NewStore()
	s.Replace(sampleFeed())

	s.Remove("1")

	for _, sel := range model.Selectors() {
		assert.NotContains(t, ids(Project(s.Snapshot(), sel)), "1", "selector %s", sel)
	}
}
