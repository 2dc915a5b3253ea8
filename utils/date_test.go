package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "RFC3339 with offset",
			input:    "2024-03-01T09:00:00+10:00",
			expected: time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 with fraction",
			input:    "2024-03-01T09:00:00.250Z",
			expected: time.Date(2024, 3, 1, 9, 0, 0, 250000000, time.UTC),
		},
		{
			name:     "space separated",
			input:    "2024-03-01 17:30:00",
			expected: time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC),
		},
		{
			name:     "date only",
			input:    "2024-03-01",
			expected: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISOTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(*got), "got %v", got)
		})
	}

	_, err := ParseISOTime("")
	assert.Error(t, err)
	_, err = ParseISOTime("yesterday")
	assert.Error(t, err)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 8.0, RoundTo(8, 2))
	assert.Equal(t, 1.33, RoundTo(4.0/3.0, 2))
	assert.Equal(t, 2.67, RoundTo(8.0/3.0, 2))
	assert.Equal(t, -1.5, RoundTo(-1.5, 2))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, SplitList(" http://a, ,http://b "))
	assert.Nil(t, SplitList(""))
}
