package validator

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Date validation (ISO, as sent by date pickers)
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// ParseDayMonthYear parses the DD/MM/YYYY dates written by punch clocks.
// Single-digit day and month are accepted.
func ParseDayMonthYear(dateStr string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(dateStr), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject overflow such as 31/02 which time.Date would normalize.
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, false
	}
	return date, true
}

// HasAllowedExtension reports whether filename ends in one of exts (case-insensitive).
func HasAllowedExtension(filename string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext != "" && IsInSlice(ext, exts)
}
