package db

import (
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset int
		wantLimit  int
	}{
		{name: "first page", page: 1, limit: 10, wantOffset: 0, wantLimit: 10},
		{name: "third page", page: 3, limit: 20, wantOffset: 40, wantLimit: 20},
		{name: "zero page clamps to one", page: 0, limit: 10, wantOffset: 0, wantLimit: 10},
		{name: "negative page clamps to one", page: -5, limit: 10, wantOffset: 0, wantLimit: 10},
		{name: "zero limit uses default", page: 2, limit: 0, wantOffset: 10, wantLimit: 10},
		{name: "oversized limit clamps", page: 1, limit: 1000, wantOffset: 0, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := Paginate(tt.page, tt.limit)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("Paginate(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		limit    int
		expected int
	}{
		{name: "evenly divisible", total: 100, limit: 10, expected: 10},
		{name: "remainder adds a page", total: 101, limit: 10, expected: 11},
		{name: "under one page", total: 3, limit: 10, expected: 1},
		{name: "empty set", total: 0, limit: 10, expected: 0},
		{name: "zero limit", total: 50, limit: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.total, tt.limit); got != tt.expected {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.expected)
			}
		})
	}
}
