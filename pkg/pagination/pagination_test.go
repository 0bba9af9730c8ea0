package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage string
		wantPage      int
		wantPerPage   int
	}{
		{"empty", "", "", 1, 15},
		{"explicit", "3", "20", 3, 20},
		{"garbage", "x", "y", 1, 15},
		{"negative", "-2", "0", 1, 15},
		{"capped", "1", "500", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromQuery(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 30, (&PaginationParams{Page: 4, PerPage: 10}).Offset())
}
