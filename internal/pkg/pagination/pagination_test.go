package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults preserved", 1, 20, 1, 20, 0},
		{"second page offset", 2, 20, 2, 20, 20},
		{"zero page clamped", 0, 20, 1, 20, 0},
		{"negative page clamped", -3, 20, 1, 20, 0},
		{"zero limit uses default", 1, 0, 1, DefaultLimit, 0},
		{"limit capped at max", 1, 500, 1, MaxLimit, 0},
		{"offset uses clamped limit", 3, 500, 3, MaxLimit, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Normalize(tt.page, tt.limit)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		limit          int
		total          int64
		wantTotalPages int
		wantHasNext    bool
		wantHasPrev    bool
	}{
		{"single partial page", 1, 20, 5, 1, false, false},
		{"exact page boundary", 1, 20, 40, 2, true, false},
		{"middle page", 2, 20, 50, 3, true, true},
		{"last page", 3, 20, 50, 3, false, true},
		{"empty result", 1, 20, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := GetMeta(Normalize(tt.page, tt.limit), tt.total)

			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.wantTotalPages, meta.TotalPages)
			assert.Equal(t, tt.wantHasNext, meta.HasNext)
			assert.Equal(t, tt.wantHasPrev, meta.HasPrev)
		})
	}
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b"}
	resp := NewResponse(data, Normalize(1, 20), 2)

	assert.Equal(t, data, resp.Data)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, int64(2), resp.Meta.Total)
}
