package hotel

import "testing"

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int
		want  float64
	}{
		{"unrated", 0, 0, 0},
		{"single rating", 4, 1, 4},
		{"mixed ratings", 9, 2, 4.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hotel{RatingTotal: tt.total, RatingCount: tt.count}
			if got := h.AverageRating(); got != tt.want {
				t.Errorf("AverageRating() = %v, want %v", got, tt.want)
			}
		})
	}
}
