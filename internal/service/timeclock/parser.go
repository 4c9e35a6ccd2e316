package timeclock

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/xuri/excelize/v2"
)

// Column positions in a punch-clock export:
// employee ID | name | department | date | time
const (
	colName = 1
	colDate = 3
	colTime = 4
	minCols = 5
)

const (
	separatorTab       = "\t"
	separatorSemicolon = ";"
)

type sourceRow struct {
	line   int
	fields []string
}

// ParseText parses a tab or semicolon separated punch export. The separator
// is detected from the header line and used for every line.
func ParseText(text string) (timeclock.ParseReport, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	var rows []sourceRow
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, sourceRow{line: i + 1, fields: []string{line}})
	}
	if len(rows) == 0 {
		return timeclock.ParseReport{}, timeclock.ErrEmptyFile
	}

	separator := separatorSemicolon
	if strings.Contains(rows[0].fields[0], separatorTab) {
		separator = separatorTab
	}
	for i := range rows {
		rows[i].fields = strings.Split(rows[i].fields[0], separator)
	}

	report := parseRows(rows)
	report.Separator = separator
	return report, nil
}

// ParseRows parses pre-split rows, as read from a spreadsheet. The first
// non-blank row is the header.
func ParseRows(rows [][]string) (timeclock.ParseReport, error) {
	var kept []sourceRow
	for i, fields := range rows {
		if isBlankRow(fields) {
			continue
		}
		kept = append(kept, sourceRow{line: i + 1, fields: normalizeSpreadsheetRow(fields)})
	}
	if len(kept) == 0 {
		return timeclock.ParseReport{}, timeclock.ErrEmptyFile
	}
	return parseRows(kept), nil
}

// ParseSpreadsheet reads the first worksheet of an .xlsx workbook.
func ParseSpreadsheet(content []byte) (timeclock.ParseReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return timeclock.ParseReport{}, fmt.Errorf("%w: %v", timeclock.ErrUnreadableFile, err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return timeclock.ParseReport{}, fmt.Errorf("%w: no worksheet found", timeclock.ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return timeclock.ParseReport{}, fmt.Errorf("%w: %v", timeclock.ErrUnreadableFile, err)
	}
	return ParseRows(rows)
}

func parseRows(rows []sourceRow) timeclock.ParseReport {
	report := timeclock.ParseReport{}

	// rows[0] is the header
	for _, row := range rows[1:] {
		punch, ok := parsePunch(row.fields)
		if !ok {
			report.SkippedLines++
			continue
		}
		punch.Line = row.line
		report.Punches = append(report.Punches, punch)
	}

	return report
}

func parsePunch(fields []string) (timeclock.RawPunch, bool) {
	if len(fields) < minCols {
		return timeclock.RawPunch{}, false
	}

	name := strings.TrimSpace(fields[colName])
	date := strings.TrimSpace(fields[colDate])
	clock := strings.TrimSpace(fields[colTime])
	if name == "" || date == "" || clock == "" {
		return timeclock.RawPunch{}, false
	}

	// "2024-06-25 08:07:00" carries a date prefix
	if strings.Contains(clock, " ") {
		parts := strings.Fields(clock)
		if len(parts) < 2 {
			return timeclock.RawPunch{}, false
		}
		clock = parts[1]
	}

	hour, minute, ok := parseClock(clock)
	if !ok {
		return timeclock.RawPunch{}, false
	}

	return timeclock.RawPunch{
		EmployeeName: name,
		DateText:     date,
		TimeText:     formatClock(hour*60 + minute),
		Minutes:      hour*60 + minute,
	}, true
}

// parseClock reads HH:MM[:SS]. Seconds are ignored.
func parseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// normalizeSpreadsheetRow rewrites numeric date and time cells, which
// unformatted workbooks return as Excel serials, into DD/MM/YYYY and HH:MM.
func normalizeSpreadsheetRow(fields []string) []string {
	out := make([]string, len(fields))
	copy(out, fields)

	if len(out) > colDate {
		if serial, err := strconv.ParseFloat(strings.TrimSpace(out[colDate]), 64); err == nil && serial >= 20000 && serial <= 80000 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				out[colDate] = t.Format("02/01/2006")
			}
		}
	}

	if len(out) > colTime {
		if minutes, ok := serialClock(strings.TrimSpace(out[colTime])); ok {
			out[colTime] = formatClock(minutes)
		}
	}

	return out
}

// serialClock reads an Excel time serial. Whole numbers of 1 or more are
// day counts with no time of day, so they are left for the row to be skipped.
func serialClock(cell string) (int, bool) {
	if _, _, ok := parseClock(cell); ok {
		return 0, false
	}
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || serial < 0 {
		return 0, false
	}

	fraction := serial - math.Floor(serial)
	if fraction == 0 && serial >= 1 {
		return 0, false
	}

	minutes := int(fraction*24*60 + 0.5)
	if minutes >= 24*60 {
		minutes = 24*60 - 1
	}
	return minutes, true
}
