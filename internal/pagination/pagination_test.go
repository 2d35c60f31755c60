package pagination

import "testing"

func TestNewParams(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "valid values", page: 3, limit: 25, wantPage: 3, wantLimit: 25},
		{name: "zero page", page: 0, limit: 10, wantPage: DefaultPage, wantLimit: 10},
		{name: "negative page", page: -4, limit: 10, wantPage: DefaultPage, wantLimit: 10},
		{name: "zero limit", page: 2, limit: 0, wantPage: 2, wantLimit: DefaultLimit},
		{name: "negative limit", page: 2, limit: -1, wantPage: 2, wantLimit: DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParams(tt.page, tt.limit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("NewParams(%d, %d) = {%d, %d}, want {%d, %d}",
					tt.page, tt.limit, p.Page, p.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestParams_Offset(t *testing.T) {
	tests := []struct {
		page   int
		limit  int
		offset int
	}{
		{page: 1, limit: 10, offset: 0},
		{page: 2, limit: 10, offset: 10},
		{page: 3, limit: 7, offset: 14},
	}

	for _, tt := range tests {
		p := NewParams(tt.page, tt.limit)
		if got := p.Offset(); got != tt.offset {
			t.Errorf("Offset() for page=%d limit=%d = %d, want %d", tt.page, tt.limit, got, tt.offset)
		}
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int
		wantPages int
		wantMore  bool
	}{
		{name: "exact multiple", page: 1, limit: 10, total: 20, wantPages: 2, wantMore: true},
		{name: "partial last page", page: 2, limit: 10, total: 12, wantPages: 2, wantMore: false},
		{name: "first of two", page: 1, limit: 10, total: 12, wantPages: 2, wantMore: true},
		{name: "empty collection", page: 1, limit: 10, total: 0, wantPages: 0, wantMore: false},
		{name: "past the end", page: 5, limit: 10, total: 12, wantPages: 2, wantMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(NewParams(tt.page, tt.limit), tt.total)
			if meta.CurrentPage != tt.page {
				t.Errorf("CurrentPage = %d, want %d", meta.CurrentPage, tt.page)
			}
			if meta.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.wantPages)
			}
			if meta.TotalPosts != tt.total {
				t.Errorf("TotalPosts = %d, want %d", meta.TotalPosts, tt.total)
			}
			if meta.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", meta.HasMore, tt.wantMore)
			}
		})
	}
}
