package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlaceholderEmployeeID stands in for the employee id of a record whose
// account no longer exists.
const PlaceholderEmployeeID = "-"

type UserSnapshot struct {
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
}

func (s UserSnapshot) FullName() string {
	return s.FirstName + " " + s.LastName
}

var missingUser = UserSnapshot{EmployeeID: PlaceholderEmployeeID}

type EnrichedAttendanceRecord struct {
	model.AttendanceRecord
	User UserSnapshot `json:"user"`
}

// Duration is a shift length in hours, or unavailable when either end of
// the shift is missing.
type Duration struct {
	hours     float64
	available bool
}

var DurationUnavailable = Duration{}

func HoursDuration(h float64) Duration {
	return Duration{hours: h, available: true}
}

func (d Duration) Hours() (float64, bool) {
	return d.hours, d.available
}

func (d Duration) Available() bool {
	return d.available
}

func (d Duration) String() string {
	if !d.available {
		return "N/A"
	}
	return fmt.Sprintf("%.2f hrs", d.hours)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	if !d.available {
		return []byte("null"), nil
	}
	return json.Marshal(d.hours)
}

// ComputeDuration returns end - start in hours rounded to two places.
// End before start yields a negative value.
func ComputeDuration(start, end *time.Time) Duration {
	if start == nil || end == nil {
		return DurationUnavailable
	}
	return HoursDuration(utils.RoundTo(end.Sub(*start).Hours(), 2))
}

// Enrich joins records with a snapshot of their owner's profile.
func Enrich(records []model.AttendanceRecord, accounts []model.UserAccount) []EnrichedAttendanceRecord {
	byID := utils.KeyBy(accounts, func(a model.UserAccount) string { return a.ID })
	return utils.Map(records, func(r model.AttendanceRecord) EnrichedAttendanceRecord {
		snapshot := missingUser
		if a, ok := byID[r.UserID]; ok {
			snapshot = UserSnapshot{
				EmployeeID: a.EmployeeID,
				FirstName:  a.FirstName,
				LastName:   a.LastName,
				Email:      a.Email,
			}
		}
		return EnrichedAttendanceRecord{AttendanceRecord: r, User: snapshot}
	})
}

func FilterByDate(records []EnrichedAttendanceRecord, date string) []EnrichedAttendanceRecord {
	return utils.Filter(records, func(r EnrichedAttendanceRecord) bool {
		return r.Date == date
	})
}

// GroupKey is the employee id when the snapshot carries one, otherwise the
// user id. Records of one person can land in two groups if some carry an
// employee id and others do not. The "-" placeholder of a missing account
// is deliberately not used as a key, so orphaned records stay per user
// instead of collapsing into one shared group.
func GroupKey(r EnrichedAttendanceRecord) string {
	if id := r.User.EmployeeID; id != "" && id != PlaceholderEmployeeID {
		return id
	}
	return r.UserID
}

func startOf(r EnrichedAttendanceRecord) time.Time {
	if r.StartTime == nil {
		return time.Unix(0, 0).UTC()
	}
	return *r.StartTime
}

// LatestPerUser keeps the record with the greatest start time per group.
// Groups are emitted in first-seen order.
func LatestPerUser(records []EnrichedAttendanceRecord) []EnrichedAttendanceRecord {
	groups := utils.GroupBy(records, GroupKey)
	keys := utils.GroupKeys(records, GroupKey)

	out := make([]EnrichedAttendanceRecord, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		latest := group[0]
		for _, r := range group[1:] {
			if startOf(r).After(startOf(latest)) {
				latest = r
			}
		}
		out = append(out, latest)
	}
	return out
}

// TextSearch matches the query, ignoring case, against the employee id,
// "first last" and the email.
func TextSearch(records []EnrichedAttendanceRecord, query string) []EnrichedAttendanceRecord {
	if query == "" {
		return records
	}
	return utils.Filter(records, func(r EnrichedAttendanceRecord) bool {
		return utils.ContainsFold(r.User.EmployeeID, query) ||
			utils.ContainsFold(r.User.FullName(), query) ||
			utils.ContainsFold(r.User.Email, query)
	})
}

type RosterQuery struct {
	Date   string
	Query  string
	Latest bool
}

type RosterEntry struct {
	EnrichedAttendanceRecord
	DurationHours Duration `json:"durationHours"`
}

// BuildRoster applies the date filter, the latest-per-user reduction and
// the text search in that order, newest shift first.
func BuildRoster(records []EnrichedAttendanceRecord, q RosterQuery) []RosterEntry {
	if q.Date != "" {
		records = FilterByDate(records, q.Date)
	}
	if q.Latest {
		records = LatestPerUser(records)
	}
	records = TextSearch(records, q.Query)

	entries := utils.Map(records, func(r EnrichedAttendanceRecord) RosterEntry {
		return RosterEntry{EnrichedAttendanceRecord: r, DurationHours: ComputeDuration(r.StartTime, r.EndTime)}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return startOf(entries[i].EnrichedAttendanceRecord).After(startOf(entries[j].EnrichedAttendanceRecord))
	})
	return entries
}

type Aggregator struct {
	store  DirectoryStore
	logger *zap.Logger
}

func NewAggregator(store DirectoryStore, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: store, logger: logger}
}

// ListEnriched loads every attendance record and account and joins them.
func (a *Aggregator) ListEnriched(ctx context.Context) ([]EnrichedAttendanceRecord, error) {
	var (
		records  []model.AttendanceRecord
		accounts []model.UserAccount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = a.store.ListAttendance(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = a.store.ListAccounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("failed to load attendance", zap.Error(err))
		return nil, Unavailable(err)
	}

	return Enrich(records, accounts), nil
}

func (a *Aggregator) Roster(ctx context.Context, q RosterQuery) ([]RosterEntry, error) {
	records, err := a.ListEnriched(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRoster(records, q), nil
}
