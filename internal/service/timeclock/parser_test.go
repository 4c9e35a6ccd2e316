package timeclock

import (
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseText_DetectsTabSeparator(t *testing.T) {
	input := "ID\tName\tDept\tDate\tTime\n" +
		"7\tAna Perez\tOps\t25/06/2024\t08:07\n" +
		"7\tAna Perez\tOps\t25/06/2024\t12:01:30\n"

	report, err := ParseText(input)
	require.NoError(t, err)

	assert.Equal(t, "\t", report.Separator)
	assert.Equal(t, 0, report.SkippedLines)
	require.Len(t, report.Punches, 2)
	assert.Equal(t, timeclock.RawPunch{
		EmployeeName: "Ana Perez",
		DateText:     "25/06/2024",
		TimeText:     "08:07",
		Minutes:      487,
		Line:         2,
	}, report.Punches[0])
	assert.Equal(t, "12:01", report.Punches[1].TimeText)
	assert.Equal(t, 721, report.Punches[1].Minutes)
}

func TestParseText_FallsBackToSemicolon(t *testing.T) {
	input := "ID;Name;Dept;Date;Time\r\n" +
		"1;Luis;Ops;26/06/2024;08:15\r\n"

	report, err := ParseText(input)
	require.NoError(t, err)

	assert.Equal(t, ";", report.Separator)
	require.Len(t, report.Punches, 1)
	assert.Equal(t, "Luis", report.Punches[0].EmployeeName)
	assert.Equal(t, "08:15", report.Punches[0].TimeText)
}

func TestParseText_SeparatorComesFromHeaderOnly(t *testing.T) {
	// header has no tab, so tab-separated data lines cannot be split
	input := "ID;Name;Dept;Date;Time\n" +
		"1\tLuis\tOps\t26/06/2024\t08:15\n"

	report, err := ParseText(input)
	require.NoError(t, err)
	assert.Empty(t, report.Punches)
	assert.Equal(t, 1, report.SkippedLines)
}

func TestParseText_SkipsMalformedLines(t *testing.T) {
	input := "ID\tName\tDept\tDate\tTime\n" +
		"1\tAna\tOps\t25/06/2024\n" + // too few fields
		"1\t\tOps\t25/06/2024\t08:00\n" + // empty name
		"1\tAna\tOps\t25/06/2024\tlate\n" + // not a time
		"1\tAna\tOps\t25/06/2024\t24:10\n" + // hour out of range
		"1\tAna\tOps\t25/06/2024\t08:61\n" + // minute out of range
		"\n" +
		"1\tAna\tOps\t25/06/2024\t2024-06-25 08:09:00\n"

	report, err := ParseText(input)
	require.NoError(t, err)

	assert.Equal(t, 5, report.SkippedLines)
	require.Len(t, report.Punches, 1)
	assert.Equal(t, "08:09", report.Punches[0].TimeText)
	assert.Equal(t, 8, report.Punches[0].Line)
}

func TestParseText_KeepsDateTextVerbatim(t *testing.T) {
	report, err := ParseText("ID;Name;Dept;Date;Time\n1;Ana;Ops;25/06/2024 lun;08:07\n")
	require.NoError(t, err)

	require.Len(t, report.Punches, 1)
	assert.Equal(t, "25/06/2024 lun", report.Punches[0].DateText)
	assert.Zero(t, report.SkippedLines)
}

func TestParseText_StripsByteOrderMark(t *testing.T) {
	report, err := ParseText("\ufeffID\tName\tDept\tDate\tTime\n1\tAna\tOps\t25/06/2024\t08:00\n")
	require.NoError(t, err)
	assert.Equal(t, "\t", report.Separator)
	assert.Len(t, report.Punches, 1)
}

func TestParseText_EmptyFile(t *testing.T) {
	_, err := ParseText("")
	assert.ErrorIs(t, err, timeclock.ErrEmptyFile)

	_, err = ParseText("\n  \n\n")
	assert.ErrorIs(t, err, timeclock.ErrEmptyFile)
}

func TestParseText_HeaderOnlyIsEmptyResult(t *testing.T) {
	report, err := ParseText("ID\tName\tDept\tDate\tTime\n")
	require.NoError(t, err)
	assert.Empty(t, report.Punches)
	assert.Equal(t, 0, report.SkippedLines)
}

func TestParseRows_NormalizesSpreadsheetSerials(t *testing.T) {
	rows := [][]string{
		{"ID", "Name", "Dept", "Date", "Time"},
		{"1", "Ana", "Ops", "45468", "0.3381944444"},
		{},
		{"1", "Ana", "Ops", "25/06/2024", "12:05"},
	}

	report, err := ParseRows(rows)
	require.NoError(t, err)
	require.Len(t, report.Punches, 2)

	assert.Equal(t, "25/06/2024", report.Punches[0].DateText)
	assert.Equal(t, "08:07", report.Punches[0].TimeText)
	assert.Equal(t, 2, report.Punches[0].Line)
	assert.Equal(t, 4, report.Punches[1].Line)
}

func TestParseRows_WholeNumberTimeIsMalformed(t *testing.T) {
	rows := [][]string{
		{"ID", "Name", "Dept", "Date", "Time"},
		{"1", "Ana", "Ops", "25/06/2024", "8"},
		{"1", "Ana", "Ops", "25/06/2024", "45468"},
		{"1", "Ana", "Ops", "25/06/2024", "0"},
		{"1", "Ana", "Ops", "25/06/2024", "45468.5"},
	}

	report, err := ParseRows(rows)
	require.NoError(t, err)

	assert.Equal(t, 2, report.SkippedLines)
	require.Len(t, report.Punches, 2)
	assert.Equal(t, "00:00", report.Punches[0].TimeText)
	assert.Equal(t, 4, report.Punches[0].Line)
	assert.Equal(t, "12:00", report.Punches[1].TimeText)
	assert.Equal(t, 5, report.Punches[1].Line)
}

func TestSerialClock(t *testing.T) {
	tests := []struct {
		cell    string
		minutes int
		ok      bool
	}{
		{"0.3381944444", 8*60 + 7, true},
		{"45468.75", 18 * 60, true},
		{"0", 0, true},
		{"8", 0, false},
		{"45468", 0, false},
		{"08:07", 0, false},
		{"-0.5", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			minutes, ok := serialClock(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.minutes, minutes)
			}
		})
	}
}

func TestParseSpreadsheet_MatchesTextIngestion(t *testing.T) {
	rows := [][]interface{}{
		{"ID", "Name", "Dept", "Date", "Time"},
		{"7", "Ana Perez", "Ops", "25/06/2024", "08:07"},
		{"7", "Ana Perez", "Ops", "25/06/2024", "12:00"},
		{"7", "Ana Perez", "Ops", "25/06/2024", "13:20"},
	}
	content := buildWorkbook(t, rows)

	fromSheet, err := ParseSpreadsheet(content)
	require.NoError(t, err)

	fromText, err := ParseText("ID\tName\tDept\tDate\tTime\n" +
		"7\tAna Perez\tOps\t25/06/2024\t08:07\n" +
		"7\tAna Perez\tOps\t25/06/2024\t12:00\n" +
		"7\tAna Perez\tOps\t25/06/2024\t13:20\n")
	require.NoError(t, err)

	assert.Equal(t, fromText.Punches, fromSheet.Punches)
}

func TestParseSpreadsheet_RejectsGarbage(t *testing.T) {
	_, err := ParseSpreadsheet([]byte("not a workbook"))
	assert.ErrorIs(t, err, timeclock.ErrUnreadableFile)
}

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
