package timeclock

import "errors"

// Timeclock domain errors
var (
	// Upload errors
	ErrEmptyFile        = errors.New("punch file has no content")
	ErrUnreadableFile   = errors.New("punch file could not be read")
	ErrFileTooLarge     = errors.New("punch file exceeds the maximum size")
	ErrUploadInProgress = errors.New("another punch file is being processed")

	// Query errors
	ErrNoResultSet       = errors.New("no punch file has been processed yet")
	ErrNoDataToExport    = errors.New("there are no records to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNoArchive         = errors.New("the source punch file was not archived")
)
