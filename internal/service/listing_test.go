package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{50, 24, 3},
		{48, 24, 2},
		{24, 24, 1},
		{1, 24, 1},
		{0, 24, 0},
		{-3, 24, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.perPage), "PageCount(%d, %d)", tt.total, tt.perPage)
	}
}

func TestStartIndex(t *testing.T) {
	var indices []int
	for page := 0; page < PageCount(50, 24); page++ {
		indices = append(indices, StartIndex(page, 24))
	}
	assert.Equal(t, []int{0, 24, 48}, indices)
}
