package partition

import (
	stderrors "errors"
	"sort"
	"testing"

	"github.com/go-sif/kthfreq/errors"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinAssignment(t *testing.T) {
	parts, err := RoundRobin([]int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 3)
	require.Nil(t, err)
	require.Len(t, parts, 3)
	require.Equal(t, []int{9, 9, 8}, parts[0].Values)
	require.Equal(t, []int{9, 8, 6}, parts[1].Values)
	require.Equal(t, []int{6, 6, 4}, parts[2].Values)
	for i, p := range parts {
		require.Equal(t, i, p.ID)
	}
}

func TestRoundRobinPreservesMultiset(t *testing.T) {
	data := []int{5, 3, 5, 1, 2, 3, 4, 4, 4, 0, -7}
	for _, n := range []int{1, 2, 3, 4, 8, 20} {
		parts, err := RoundRobin(data, n)
		require.Nil(t, err)
		require.Len(t, parts, n)
		var all []int
		for _, p := range parts {
			all = append(all, p.Values...)
		}
		expected := append([]int(nil), data...)
		sort.Ints(expected)
		sort.Ints(all)
		require.Equal(t, expected, all, "n=%d", n)
	}
}

func TestRoundRobinBalanced(t *testing.T) {
	parts, err := RoundRobin([]int{1, 2, 3, 4, 5, 6, 7}, 3)
	require.Nil(t, err)
	require.Equal(t, 3, parts[0].Len())
	require.Equal(t, 2, parts[1].Len())
	require.Equal(t, 2, parts[2].Len())
}

func TestRoundRobinEmptyAndSparse(t *testing.T) {
	parts, err := RoundRobin([]int{}, 4)
	require.Nil(t, err)
	require.Len(t, parts, 4)
	for _, p := range parts {
		require.True(t, p.IsEmpty())
	}

	parts, err = RoundRobin([]int{42}, 3)
	require.Nil(t, err)
	require.Equal(t, []int{42}, parts[0].Values)
	require.True(t, parts[1].IsEmpty())
	require.True(t, parts[2].IsEmpty())
}

func TestRoundRobinInvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := RoundRobin([]int{1}, n)
		var ierr errors.InvalidArgumentError
		require.True(t, stderrors.As(err, &ierr))
	}
}
