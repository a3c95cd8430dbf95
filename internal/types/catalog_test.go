package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{
			name:   "both names set",
			author: Author{FirstName: "John", FamilyName: "Doe"},
			want:   "Doe, John",
		},
		{
			name:   "first name missing",
			author: Author{FamilyName: "Doe"},
			want:   "",
		},
		{
			name:   "family name missing",
			author: Author{FirstName: "John"},
			want:   "",
		},
		{
			name:   "both names missing",
			author: Author{Born: date(1990, 1, 1), Died: date(2020, 1, 1)},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.author.Name())
		})
	}
}

func TestAuthorLifespan(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{
			name:   "both dates set",
			author: Author{Born: date(1990, 1, 9), Died: date(2020, 12, 27)},
			want:   "1990 - 2020",
		},
		{
			name:   "only birth date",
			author: Author{Born: date(1990, 1, 9)},
			want:   "1990 - ",
		},
		{
			name:   "only death date",
			author: Author{Died: date(2020, 12, 27)},
			want:   " - 2020",
		},
		{
			name:   "no dates",
			author: Author{FirstName: "John", FamilyName: "Doe"},
			want:   " - ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.author.Lifespan())
			assert.Contains(t, tt.author.Lifespan(), " - ")
		})
	}
}
