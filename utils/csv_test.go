package utils

import (
	"bytes"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	records := [][]string{
		{"name", "age", "city"},
		{"Alice", "30", "New York"},
		{"Bob", "25", "Los Angeles, CA"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	want := "name,age,city\nAlice,30,New York\nBob,25,\"Los Angeles, CA\"\n"
	if buf.String() != want {
		t.Errorf("WriteCSV wrote %q, want %q", buf.String(), want)
	}
}

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(bytes.NewBufferString("id,userId,timestamp\n1, u1,2024-03-01T09:00:00Z,6.9,79.8\n"))
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(rows) != 2 || len(rows[1]) != 5 || rows[1][1] != "u1" {
		t.Errorf("ParseCSV read %q", rows)
	}
}
