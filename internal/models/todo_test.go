package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskdesk/internal/models"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"date only", "2030-06-01", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"RFC3339", "2030-06-01T09:30:00+09:00", time.Date(2030, 6, 1, 0, 30, 0, 0, time.UTC), true},
		{"datetime without zone", "2030-06-01T09:30", time.Date(2030, 6, 1, 9, 30, 0, 0, time.UTC), true},
		{"seconds without zone", "2030-06-01T09:30:15", time.Date(2030, 6, 1, 9, 30, 15, 0, time.UTC), true},
		{"surrounding spaces", " 2030-06-01 ", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"malformed", "01/06/2030", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := models.ParseDueDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestDatePart(t *testing.T) {
	assert.Equal(t, "2030-06-01", models.DatePart("2030-06-01T09:30"))
	assert.Equal(t, "2030-06-01", models.DatePart("2030-06-01"))
}
