package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagerTotalPages(t *testing.T) {
	p := NewPager(12)
	require.Equal(t, 0, p.TotalPages())

	p.SetTotal(1)
	require.Equal(t, 1, p.TotalPages())

	p.SetTotal(12)
	require.Equal(t, 1, p.TotalPages())

	p.SetTotal(13)
	require.Equal(t, 2, p.TotalPages())

	p.SetTotal(36)
	require.Equal(t, 3, p.TotalPages())
}

func TestPagerRejectsOutOfBounds(t *testing.T) {
	p := NewPager(10)
	p.SetTotal(25)

	require.False(t, p.SetPage(0))
	require.Equal(t, 1, p.Page())

	require.False(t, p.SetPage(-3))
	require.Equal(t, 1, p.Page())

	require.True(t, p.SetPage(3))
	require.Equal(t, 3, p.Page())

	require.False(t, p.SetPage(4))
	require.Equal(t, 3, p.Page())
}

func TestPagerPageOneAlwaysReachable(t *testing.T) {
	p := NewPager(10)
	// No total yet: page 1 is still a valid target.
	require.True(t, p.SetPage(1))

	p.SetTotal(0)
	require.True(t, p.SetPage(1))
	require.False(t, p.SetPage(2))
}

func TestPagerSkip(t *testing.T) {
	p := NewPager(12)
	p.SetTotal(100)
	require.Equal(t, 0, p.Skip())

	require.True(t, p.SetPage(4))
	require.Equal(t, 36, p.Skip())

	p.Reset()
	require.Equal(t, 1, p.Page())
	require.Equal(t, 0, p.Skip())
}
