package handlers

import (
	"testing"

	"storefront-backend/models"
)

func ratings(rs ...int) []models.Review {
	reviews := make([]models.Review, len(rs))
	for i, r := range rs {
		reviews[i] = models.Review{Rating: r}
	}
	return reviews
}

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name    string
		reviews []models.Review
		want    float64
	}{
		{"no reviews", nil, 0},
		{"single", ratings(3), 3},
		{"even mean", ratings(4, 5), 4.5},
		{"rounds to two decimals", ratings(1, 2, 2), 1.67},
		{"rounds down", ratings(5, 5, 3), 4.33},
		{"all fives", ratings(5, 5, 5, 5), 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := averageRating(tc.reviews); got != tc.want {
				t.Errorf("averageRating = %v, want %v", got, tc.want)
			}
		})
	}
}
