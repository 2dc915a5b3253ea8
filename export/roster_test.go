package export

import (
	"bytes"
	"testing"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func entries() []core.RosterEntry {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC)
	return []core.RosterEntry{
		{
			EnrichedAttendanceRecord: core.EnrichedAttendanceRecord{
				AttendanceRecord: model.AttendanceRecord{
					ID: "a", UserID: "u1", Date: "2024-03-01", StartTime: &start, EndTime: &end,
					StartLocation: &model.GeoPoint{Latitude: 6.9271, Longitude: 79.8612},
				},
				User: core.UserSnapshot{EmployeeID: "E-1", FirstName: "John", LastName: "Smith", Email: "john@example.com"},
			},
			DurationHours: core.HoursDuration(8.5),
		},
		{
			EnrichedAttendanceRecord: core.EnrichedAttendanceRecord{
				AttendanceRecord: model.AttendanceRecord{ID: "b", UserID: "u2", Date: "2024-03-01", StartTime: &start},
				User:             core.UserSnapshot{EmployeeID: "E-2", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"},
			},
			DurationHours: core.DurationUnavailable,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries(), time.UTC))

	want := "Date,Employee ID,Name,Email,Start,End,Hours,Start Location,End Location\n" +
		"2024-03-01,E-1,John Smith,john@example.com,09:00,17:30,8.50,\"6.927100,79.861200\",\n" +
		"2024-03-01,E-2,Ann Lee,ann@example.com,09:00,,N/A,,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, entries(), time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "John Smith", rows[1][2])
	assert.Equal(t, "8.5", rows[1][6])
	assert.Equal(t, "N/A", rows[2][6])
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "pdf", entries(), time.UTC))
	_, err := ContentType("pdf")
	assert.Error(t, err)

	ct, err := ContentType(FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, ct, "text/csv")
}

func TestWriteCSVEscapesFormulas(t *testing.T) {
	rows := entries()[:1]
	rows[0].User = core.UserSnapshot{EmployeeID: core.PlaceholderEmployeeID, FirstName: "=HYPERLINK(\"http://x\")", LastName: "Smith", Email: "@evil.example"}
	rows[0].StartLocation = &model.GeoPoint{Latitude: -6.5, Longitude: 147.1}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, time.UTC))

	want := "Date,Employee ID,Name,Email,Start,End,Hours,Start Location,End Location\n" +
		"2024-03-01,-,\"'=HYPERLINK(\"\"http://x\"\") Smith\",'@evil.example,09:00,17:30,8.50,\"-6.500000,147.100000\",\n"
	assert.Equal(t, want, buf.String())
}

func TestEscapeFormula(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"John", "John"},
		{"=1+1", "'=1+1"},
		{"+61 400", "'+61 400"},
		{"-2+3", "'-2+3"},
		{"@SUM(A1)", "'@SUM(A1)"},
		{"\tcmd", "'\tcmd"},
		{"-", "-"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeFormula(tt.in), tt.in)
	}
}
