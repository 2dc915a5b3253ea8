package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
	"github.com/google/uuid"
)

type attendanceWriter interface {
	PutAttendance(ctx context.Context, record *model.AttendanceRecord) error
}

type attendanceFixture struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Date          string          `json:"date"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime"`
	StartLocation *model.GeoPoint `json:"startLocation"`
	EndLocation   *model.GeoPoint `json:"endLocation"`
}

func (f attendanceFixture) record() (*model.AttendanceRecord, error) {
	if f.UserID == "" || f.Date == "" {
		return nil, fmt.Errorf("userId and date are required")
	}
	r := &model.AttendanceRecord{
		ID:            f.ID,
		UserID:        f.UserID,
		Date:          f.Date,
		StartLocation: f.StartLocation,
		EndLocation:   f.EndLocation,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	var err error
	if f.StartTime != "" {
		if r.StartTime, err = utils.ParseISOTime(f.StartTime); err != nil {
			return nil, err
		}
	}
	if f.EndTime != "" {
		if r.EndTime, err = utils.ParseISOTime(f.EndTime); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func decodeAttendance(r io.Reader) ([]*model.AttendanceRecord, error) {
	var fixtures []attendanceFixture
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		return nil, err
	}
	records := make([]*model.AttendanceRecord, 0, len(fixtures))
	for i, f := range fixtures {
		rec, err := f.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func importAttendance(ctx context.Context, store attendanceWriter, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	records, err := decodeAttendance(f)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		if err := store.PutAttendance(ctx, r); err != nil {
			return 0, fmt.Errorf("record %s: %w", r.ID, err)
		}
	}
	return len(records), nil
}
