package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	var s Set
	s.Toggle("a")
	s.Toggle("b")
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	s.Toggle("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())
}

func TestSelectAllReplacesThenClears(t *testing.T) {
	s := New("z")
	filtered := []string{"a", "b", "c"}

	s.SelectAll(filtered)
	assert.Equal(t, filtered, s.IDs(), "selection is replaced, not unioned")

	s.SelectAll(filtered)
	assert.Equal(t, 0, s.Len())
}

func TestSelectAllTwiceFromEmptyReturnsToEmpty(t *testing.T) {
	s := New()
	s.SelectAll([]string{"a", "b"})
	s.SelectAll([]string{"a", "b"})
	assert.Equal(t, 0, s.Len())
}

func TestSelectAllWithExtraSelectionReplaces(t *testing.T) {
	s := New("a", "b", "x")
	s.SelectAll([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestCost(t *testing.T) {
	downloaded := map[string]bool{"b": true, "q": true}

	cases := []struct {
		name string
		sel  *Set
		want int
	}{
		{"empty", New(), 0},
		{"all new", New("a", "c"), 2},
		{"mixed", New("a", "b", "c"), 2},
		{"all repeat", New("b"), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost := tc.sel.Cost(downloaded)
			assert.Equal(t, tc.want, cost)
			assert.GreaterOrEqual(t, cost, 0)
			assert.LessOrEqual(t, cost, tc.sel.Len())
		})
	}
}

func TestPartition(t *testing.T) {
	fresh, repeat := New("c", "a", "b").Partition(map[string]bool{"b": true})
	assert.Equal(t, []string{"a", "c"}, fresh)
	assert.Equal(t, []string{"b"}, repeat)
}
