package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"axiapac.com/attendance/infrastructure/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := directory.NewMemoryStore()
	csv := "id,userId,timestamp\n1,u1,2024-03-01T09:00:00Z\n2,u1,2024-03-01T17:00:00Z\n"

	result, err := Import(ctx, store, strings.NewReader(csv), time.UTC, "punches.csv")
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Source: "punches.csv", Punches: 2, Records: 1}, result)

	result, err = Import(ctx, store, strings.NewReader(csv), time.UTC, "punches.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unchanged)

	records, err := store.ListAttendance(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "u1-2024-03-01", records[0].ID)
	require.NotNil(t, records[0].EndTime)
}

func TestImportRejectsMalformedExport(t *testing.T) {
	store := directory.NewMemoryStore()
	_, err := Import(context.Background(), store, strings.NewReader("id,userId,timestamp\n1,u1,noon\n"), time.UTC, "bad.csv")
	assert.Error(t, err)

	records, _ := store.ListAttendance(context.Background())
	assert.Empty(t, records)
}

func TestImportKeepsStoredShifts(t *testing.T) {
	ctx := context.Background()
	at := func(hhmm string) time.Time {
		ts, err := time.Parse(time.RFC3339, "2024-03-01T"+hhmm+":00Z")
		require.NoError(t, err)
		return ts
	}

	tests := []struct {
		name      string
		first     string
		second    string
		start     string
		end       string
		unchanged int
	}{
		{
			name:      "closed shift ignores a later punch",
			first:     "1,u1,2024-03-01T09:00:00Z\n2,u1,2024-03-01T17:00:00Z\n",
			second:    "3,u1,2024-03-01T18:30:00Z\n",
			start:     "09:00",
			end:       "17:00",
			unchanged: 1,
		},
		{
			name:   "open shift is closed by a later punch",
			first:  "1,u1,2024-03-01T09:00:00Z\n",
			second: "2,u1,2024-03-01T17:00:00Z\n",
			start:  "09:00",
			end:    "17:00",
		},
		{
			name:   "earlier punch does not move the start",
			first:  "1,u1,2024-03-01T09:00:00Z\n",
			second: "2,u1,2024-03-01T08:00:00Z\n3,u1,2024-03-01T16:00:00Z\n",
			start:  "09:00",
			end:    "16:00",
		},
		{
			name:      "open shift ignores an earlier lone punch",
			first:     "1,u1,2024-03-01T09:00:00Z\n",
			second:    "2,u1,2024-03-01T08:00:00Z\n",
			start:     "09:00",
			unchanged: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := directory.NewMemoryStore()
			header := "id,userId,timestamp\n"

			_, err := Import(ctx, store, strings.NewReader(header+tt.first), time.UTC, "first.csv")
			require.NoError(t, err)
			result, err := Import(ctx, store, strings.NewReader(header+tt.second), time.UTC, "second.csv")
			require.NoError(t, err)
			assert.Equal(t, tt.unchanged, result.Unchanged)

			record, err := store.GetAttendance(ctx, "u1-2024-03-01")
			require.NoError(t, err)
			require.NotNil(t, record.StartTime)
			assert.Equal(t, at(tt.start), *record.StartTime)
			if tt.end == "" {
				assert.Nil(t, record.EndTime)
				return
			}
			require.NotNil(t, record.EndTime)
			assert.Equal(t, at(tt.end), *record.EndTime)
		})
	}
}
