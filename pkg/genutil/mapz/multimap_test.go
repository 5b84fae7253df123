package mapz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiMapOrderAndDedup(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	mm := NewMultiMap[string, string]()
	require.True(mm.IsEmpty())

	mm.Add("person", "name")
	mm.Add("team", "title")
	mm.Add("person", "age")
	mm.Add("person", "name")
	mm.Touch("empty")
	mm.Touch("person")

	require.Equal([]string{"person", "team", "empty"}, mm.Keys())
	require.Equal(3, mm.Len())

	props, ok := mm.Get("person")
	require.True(ok)
	require.Equal([]string{"name", "age"}, props)

	props, ok = mm.Get("empty")
	require.True(ok)
	require.Empty(props)

	_, ok = mm.Get("missing")
	require.False(ok)
	require.False(mm.Has("missing"))
}

func TestMultiMapGetReturnsCopy(t *testing.T) {
	t.Parallel()

	mm := NewMultiMap[int, int]()
	mm.Add(1, 10)
	got, _ := mm.Get(1)
	got[0] = 99

	again, _ := mm.Get(1)
	require.Equal(t, []int{10}, again)
}
