package helper

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
)

// Punch is one row of a clock-in device export:
// id,userId,timestamp[,latitude,longitude]
type Punch struct {
	ID        string
	UserID    string
	Timestamp time.Time
	Date      string
	Location  *model.GeoPoint
}

func ParsePunches(r io.Reader, loc *time.Location) ([]Punch, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	var punches []Punch
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected at least 3 columns, got %d", i, len(row))
		}

		ts, err := utils.ParseISOTime(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", i, err)
		}
		local := ts.In(loc)

		p := Punch{
			ID:        strings.TrimSpace(row[0]),
			UserID:    strings.TrimSpace(row[1]),
			Timestamp: local,
			Date:      local.Format(utils.DateLayout),
		}
		if p.UserID == "" {
			return nil, fmt.Errorf("row %d: missing user id", i)
		}
		if len(row) >= 5 && row[3] != "" && row[4] != "" {
			lat, err := strconv.ParseFloat(row[3], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid latitude: %w", i, err)
			}
			lng, err := strconv.ParseFloat(row[4], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid longitude: %w", i, err)
			}
			p.Location = &model.GeoPoint{Latitude: lat, Longitude: lng}
		}
		punches = append(punches, p)
	}
	return punches, nil
}

// GroupPunches folds the punches of each user and day into one shift.
// The earliest punch starts the shift and the latest ends it. A lone punch
// leaves the shift open. Punches repeating an earlier id are dropped.
// Record ids are derived from user and day so shifts from later exports
// land on the same record.
func GroupPunches(punches []Punch) []model.AttendanceRecord {
	seen := map[string]bool{}
	unique := utils.Filter(punches, func(p Punch) bool {
		if p.ID == "" {
			return true
		}
		if seen[p.ID] {
			return false
		}
		seen[p.ID] = true
		return true
	})
	grouped := utils.GroupBy(unique, func(p Punch) string { return p.UserID + "|" + p.Date })

	records := make([]model.AttendanceRecord, 0, len(grouped))
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Timestamp.Before(group[j].Timestamp) })
		first, last := group[0], group[len(group)-1]

		r := model.AttendanceRecord{
			ID:            first.UserID + "-" + first.Date,
			UserID:        first.UserID,
			Date:          first.Date,
			StartTime:     utils.Ptr(first.Timestamp),
			StartLocation: first.Location,
		}
		if len(group) > 1 {
			r.EndTime = utils.Ptr(last.Timestamp)
			r.EndLocation = last.Location
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].UserID < records[j].UserID
	})
	return records
}

// MergeShift folds a shift from a later export into the stored one.
// Fields already written are never changed: the only update is closing an
// open shift with a punch after its start. The second result reports
// whether anything changed.
func MergeShift(stored, incoming model.AttendanceRecord) (model.AttendanceRecord, bool) {
	merged := stored
	if merged.StartTime == nil {
		merged.StartTime = incoming.StartTime
		merged.StartLocation = incoming.StartLocation
		merged.EndTime = incoming.EndTime
		merged.EndLocation = incoming.EndLocation
		return merged, incoming.StartTime != nil
	}
	if merged.EndTime != nil {
		return merged, false
	}

	end, endLocation := incoming.EndTime, incoming.EndLocation
	if end == nil {
		end, endLocation = incoming.StartTime, incoming.StartLocation
	}
	if end == nil || !end.After(*merged.StartTime) {
		return merged, false
	}
	merged.EndTime = end
	merged.EndLocation = endLocation
	return merged, true
}
