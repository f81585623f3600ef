package testing

import (
	"testing"

	"github.com/go-sif/kthfreq"
	"github.com/stretchr/testify/require"
)

func TestNaiveKthFrequent(t *testing.T) {
	data := []int{9, 9, 6, 9, 8, 6, 8, 6, 4}
	require.Equal(t, 6, NaiveKthFrequent(data, 1))
	require.Equal(t, 9, NaiveKthFrequent(data, 2))
	require.Equal(t, 8, NaiveKthFrequent(data, 3))
	require.Equal(t, 4, NaiveKthFrequent(data, 4))
	require.Equal(t, kthfreq.NoResult, NaiveKthFrequent(data, 5))
	require.Equal(t, kthfreq.NoResult, NaiveKthFrequent(nil, 1))
}

func TestFaultyCounters(t *testing.T) {
	acc := DroppingCounter(3)(0)
	for _, v := range []int{1, 3, 3, 2} {
		require.Nil(t, acc.Accumulate(v))
	}
	require.Equal(t, kthfreq.FrequencyTable{1: 1, 2: 1}, acc.Table())

	failing := FailingCounter(2, errBoom)(0)
	require.Nil(t, failing.Accumulate(1))
	require.Equal(t, errBoom, failing.Accumulate(2))

	panicking := PanickingCounter(7)(0)
	require.Panics(t, func() { _ = panicking.Accumulate(7) })

	release := make(chan struct{})
	close(release)
	stalling := StallingCounter(1, release)(0)
	require.Nil(t, stalling.Accumulate(1))
	require.Equal(t, 1, stalling.Table()[1])
}

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom error = boomError{}
