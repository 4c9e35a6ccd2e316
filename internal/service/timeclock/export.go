package timeclock

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Category labels written to exported reports.
const (
	LabelNormal = "NORMAL"
	LabelLate   = "LATE ARRIVAL"
	LabelLunch  = "LUNCH OVERRUN"
	LabelBoth   = LabelLate + " + " + LabelLunch
)

const (
	reportTitle = "Attendance report"
	xlsxSheet   = "Sheet1"
)

var exportColumns = []string{
	"Name",
	"Date",
	"Time",
	"Hourly wage",
	"Minutes late",
	"Late discount",
	"Lunch extra minutes",
	"Lunch discount",
	"Total discount",
	"Category",
}

// Exporter renders record views as CSV or XLSX reports.
type Exporter struct {
	locale    language.Tag
	selection Selection
	now       func() time.Time
}

// NewExporter sorts names using the collation rules of locale, falling
// back to Spanish when the tag cannot be parsed. selection is documented
// in the report header.
func NewExporter(locale string, selection Selection) *Exporter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &Exporter{
		locale:    tag,
		selection: selection,
		now:       time.Now,
	}
}

// Filename returns the download name for a report generated today.
func (e *Exporter) Filename(format timeclock.ExportFormat) string {
	return fmt.Sprintf("attendance_report_%s.%s", e.now().Format("2006-01-02"), format)
}

// Sorted returns a copy of records ordered by employee name, then date,
// then time.
func (e *Exporter) Sorted(records []timeclock.Record) []timeclock.Record {
	out := make([]timeclock.Record, len(records))
	copy(out, records)

	collator := collate.New(e.locale, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if c := collator.CompareString(out[i].EmployeeName, out[j].EmployeeName); c != 0 {
			return c < 0
		}
		if c := compareDates(out[i].Date, out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// CSV writes the view as comma-separated text preceded by '#' metadata lines.
func (e *Exporter) CSV(view timeclock.View) []byte {
	var b strings.Builder

	for _, line := range e.metadata(view) {
		b.WriteString("# ")
		b.WriteString(line[0])
		if line[1] != "" {
			b.WriteString(": ")
			b.WriteString(line[1])
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Join(exportColumns, ","))
	b.WriteString("\n")

	for _, r := range e.Sorted(view.Records) {
		fields := []string{
			quote(r.EmployeeName),
			csvField(r.Date),
			csvField(displayTime(r)),
			formatWhole(r.HourlyWage),
			strconv.Itoa(r.LateMinutes),
			formatWhole(r.LateDiscount),
			strconv.Itoa(r.LunchExtraMinutes),
			formatWhole(r.LunchDiscount),
			formatWhole(r.TotalDiscount),
			CategoryLabel(r),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}

	return []byte(b.String())
}

// XLSX writes the view as a single-sheet workbook with violation rows highlighted.
func (e *Exporter) XLSX(view timeclock.View) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lateStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FDE2E1"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create late style: %w", err)
	}
	lunchStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFEDD5"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lunch style: %w", err)
	}

	row := 1
	for _, line := range e.metadata(view) {
		if err := setRow(f, row, []interface{}{line[0], line[1]}); err != nil {
			return nil, err
		}
		row++
	}
	row++

	header := make([]interface{}, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := setRow(f, row, header); err != nil {
		return nil, err
	}
	if err := styleRow(f, row, boldStyle); err != nil {
		return nil, err
	}
	row++

	for _, r := range e.Sorted(view.Records) {
		values := []interface{}{
			r.EmployeeName,
			r.Date,
			displayTime(r),
			math.Round(r.HourlyWage),
			r.LateMinutes,
			math.Round(r.LateDiscount),
			r.LunchExtraMinutes,
			math.Round(r.LunchDiscount),
			math.Round(r.TotalDiscount),
			CategoryLabel(r),
		}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		switch {
		case r.IsLateArrival:
			err = styleRow(f, row, lateStyle)
		case r.IsLunchViolation:
			err = styleRow(f, row, lunchStyle)
		}
		if err != nil {
			return nil, err
		}
		row++
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 32); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) metadata(view timeclock.View) [][2]string {
	lines := [][2]string{
		{reportTitle, ""},
		{"Generated", e.now().Format(time.RFC3339)},
	}
	if view.Filter != nil {
		lines = append(lines, [2]string{"Period", view.Filter.Start.Format("2006-01-02") + " to " + view.Filter.End.Format("2006-01-02")})
	}
	lines = append(lines,
		[2]string{"Total records", strconv.Itoa(view.Summary.TotalRecords)},
		[2]string{"Late arrivals", strconv.Itoa(view.Summary.LateArrivals)},
		[2]string{"Lunch overruns", strconv.Itoa(view.Summary.LunchViolations)},
		[2]string{"Selection", e.selection.Description()},
	)
	return lines
}

// CategoryLabel is the report label for a record. Both flags are shown
// when both are set.
func CategoryLabel(r timeclock.Record) string {
	switch {
	case r.IsLateArrival && r.IsLunchViolation:
		return LabelBoth
	case r.IsLateArrival:
		return LabelLate
	case r.IsLunchViolation:
		return LabelLunch
	default:
		return LabelNormal
	}
}

// ExportedRow is a data row read back from an exported CSV report.
type ExportedRow struct {
	EmployeeName     string
	Date             string
	Time             string
	IsLateArrival    bool
	IsLunchViolation bool
}

// ParseExportCategories reads a CSV report produced by Exporter.CSV and
// recovers each row's violation flags from its category column.
func ParseExportCategories(r io.Reader) ([]ExportedRow, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[name] = i
	}
	for _, required := range []string{"Name", "Date", "Time", "Category"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("report is missing column %q", required)
		}
	}

	var out []ExportedRow
	for _, row := range rows[1:] {
		if len(row) < len(rows[0]) {
			continue
		}
		label := row[columns["Category"]]
		clock := row[columns["Time"]]
		if i := strings.Index(clock, " "); i >= 0 {
			clock = clock[:i]
		}
		out = append(out, ExportedRow{
			EmployeeName:     row[columns["Name"]],
			Date:             row[columns["Date"]],
			Time:             clock,
			IsLateArrival:    strings.Contains(label, LabelLate),
			IsLunchViolation: strings.Contains(label, LabelLunch),
		})
	}
	return out, nil
}

func displayTime(r timeclock.Record) string {
	if r.LunchReturnTime != "" {
		return r.Time + " (return " + r.LunchReturnTime + ")"
	}
	return r.Time
}

func formatWhole(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

func compareDates(a, b string) int {
	da, okA := validator.ParseDayMonthYear(a)
	db, okB := validator.ParseDayMonthYear(b)
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, row, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(exportColumns), row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	return nil
}
