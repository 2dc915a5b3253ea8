package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/export"
	"axiapac.com/attendance/utils"
)

type RosterEvent struct {
	Date   string `json:"date"`
	Query  string `json:"query"`
	Latest bool   `json:"latest"`
}

type RosterResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Rows   int    `json:"rows"`
}

type ObjectWriter interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
	Bucket() string
}

// GenerateRoster renders the roster for the event's day as XLSX and
// stores it under rosters/<date>.xlsx.
func GenerateRoster(ctx context.Context, aggregator *core.Aggregator, out ObjectWriter, loc *time.Location, event RosterEvent) (*RosterResult, error) {
	date := event.Date
	if date == "" {
		date = utils.Today(loc)
	}
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	entries, err := aggregator.Roster(ctx, core.RosterQuery{Date: date, Query: event.Query, Latest: event.Latest})
	if err != nil {
		return nil, fmt.Errorf("failed to build roster: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, entries, loc); err != nil {
		return nil, fmt.Errorf("failed to render roster: %w", err)
	}

	contentType, _ := export.ContentType(export.FormatXLSX)
	key := fmt.Sprintf("rosters/%s.xlsx", date)
	if err := out.PutObject(ctx, key, contentType, bytes.NewReader(buf.Bytes())); err != nil {
		return nil, err
	}
	return &RosterResult{Bucket: out.Bucket(), Key: key, Rows: len(entries)}, nil
}

// dirWriter stores objects on the local disk when no bucket is configured.
type dirWriter struct {
	dir string
}

func (w dirWriter) Bucket() string { return "" }

func (w dirWriter) PutObject(_ context.Context, key, _ string, body io.Reader) error {
	path := filepath.Join(w.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, body)
	return err
}
