package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	sheetName = "Roster"
	timeOnly  = "15:04"
)

var Header = []string{"Date", "Employee ID", "Name", "Email", "Start", "End", "Hours", "Start Location", "End Location"}

// ContentType returns the MIME type of an export format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	}
	return "", fmt.Errorf("unsupported export format %q", format)
}

func Write(w io.Writer, format string, entries []core.RosterEntry, loc *time.Location) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, entries, loc)
	case FormatCSV:
		return WriteCSV(w, entries, loc)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeOnly)
}

func location(p *model.GeoPoint) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func row(e core.RosterEntry, loc *time.Location) []interface{} {
	var hours interface{} = e.DurationHours.String()
	if h, ok := e.DurationHours.Hours(); ok {
		hours = h
	}
	return []interface{}{
		e.Date,
		e.User.EmployeeID,
		e.User.FullName(),
		e.User.Email,
		clock(e.StartTime, loc),
		clock(e.EndTime, loc),
		hours,
		location(e.StartLocation),
		location(e.EndLocation),
	}
}

// profileColumns hold free text taken from user accounts.
var profileColumns = map[int]bool{1: true, 2: true, 3: true}

// escapeFormula stops spreadsheet applications from evaluating a cell
// as a formula.
func escapeFormula(s string) string {
	if len(s) > 1 && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func WriteCSV(w io.Writer, entries []core.RosterEntry, loc *time.Location) error {
	records := make([][]string, 0, len(entries)+1)
	records = append(records, Header)
	for _, e := range entries {
		values := row(e, loc)
		record := make([]string, len(values))
		for i, v := range values {
			switch v := v.(type) {
			case float64:
				record[i] = fmt.Sprintf("%.2f", v)
			case string:
				if profileColumns[i] {
					v = escapeFormula(v)
				}
				record[i] = v
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		records = append(records, record)
	}
	return utils.WriteCSV(w, records)
}

func WriteXLSX(w io.Writer, entries []core.RosterEntry, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := utils.Map(Header, func(s string) interface{} { return s })
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(e, loc)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "I", 16); err != nil {
		return err
	}
	return f.Write(w)
}
