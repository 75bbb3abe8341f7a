package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validMovie() Movie {
	return Movie{Title: "Alien", Genre: "Horror", Year: 1979, Rating: 8.5}
}

func TestMovieValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Movie)
		ok     bool
	}{
		{"valid", func(m *Movie) {}, true},
		{"empty title", func(m *Movie) { m.Title = "  " }, false},
		{"empty genre", func(m *Movie) { m.Genre = "" }, false},
		{"year 1700", func(m *Movie) { m.Year = 1700 }, false},
		{"year 1800 is out of range", func(m *Movie) { m.Year = 1800 }, false},
		{"year 1801 is the first valid year", func(m *Movie) { m.Year = 1801 }, true},
		{"current year is valid", func(m *Movie) { m.Year = time.Now().Year() }, true},
		{"next year is out of range", func(m *Movie) { m.Year = time.Now().Year() + 1 }, false},
		{"rating below zero", func(m *Movie) { m.Rating = -0.1 }, false},
		{"rating 10.1", func(m *Movie) { m.Rating = 10.1 }, false},
		{"rating bounds inclusive", func(m *Movie) { m.Rating = 10 }, true},
		{"rating zero", func(m *Movie) { m.Rating = 0 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMovie()
			tc.mutate(&m)
			err := m.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.IsType(t, &ValidationError{}, err)
			}
		})
	}
}

func TestReviewValidate(t *testing.T) {
	cases := []struct {
		name   string
		review Review
		ok     bool
	}{
		{"valid", Review{Rating: 7}, true},
		{"rating zero", Review{Rating: 0}, false},
		{"rating eleven", Review{Rating: 11}, false},
		{"rating bounds inclusive", Review{Rating: 1}, true},
		{"comment at limit", Review{Rating: 5, Comment: strings.Repeat("x", 1000)}, true},
		{"comment over limit", Review{Rating: 5, Comment: strings.Repeat("x", 1001)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.review.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
