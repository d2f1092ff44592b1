package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnon(t *testing.T) {
	m, err := MapAnon(100)
	require.NoError(t, err)
	defer m.Close()

	data := m.Bytes()
	assert.Equal(t, PageSize(), m.Size())
	assert.Len(t, data, m.Size())

	for i := range data {
		if data[i] != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}

	data[0] = 0xAB
	data[len(data)-1] = 0xCD
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
}

func TestMapAnon_InvalidSize(t *testing.T) {
	_, err := MapAnon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = MapAnon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMapping_CloseIdempotent(t *testing.T) {
	m, err := MapAnon(PageSize() + 1)
	require.NoError(t, err)
	assert.Equal(t, 2*PageSize(), m.Size())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
}

func TestRoundToPage(t *testing.T) {
	page := PageSize()
	tests := []struct {
		in, want int
	}{
		{1, page},
		{page, page},
		{page + 1, 2 * page},
		{3*page - 1, 3 * page},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundToPage(tt.in))
	}
}
