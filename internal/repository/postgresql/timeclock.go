package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var recordColumns = []string{
	"id",
	"result_set_id",
	"position",
	"employee_name",
	"record_date",
	"record_time",
	"hourly_wage",
	"late_minutes",
	"late_discount",
	"is_late_arrival",
	"lunch_extra_minutes",
	"lunch_discount",
	"lunch_out_time",
	"lunch_return_time",
	"is_lunch_violation",
	"total_discount",
}

type resultSetRepositoryImpl struct {
	db *database.DB
}

func NewResultSetRepository(db *database.DB) timeclock.ResultSetRepository {
	return &resultSetRepositoryImpl{db: db}
}

// Save replaces whatever result set is stored with set, atomically.
func (r *resultSetRepositoryImpl) Save(ctx context.Context, set timeclock.ResultSet) error {
	setID, err := uuid.Parse(set.ID)
	if err != nil {
		return fmt.Errorf("invalid result set id %q: %w", set.ID, err)
	}

	rows := make([][]interface{}, 0, len(set.Records))
	for i, rec := range set.Records {
		recID, err := uuid.Parse(rec.ID)
		if err != nil {
			return fmt.Errorf("invalid record id %q: %w", rec.ID, err)
		}
		rows = append(rows, []interface{}{
			recID,
			setID,
			i,
			rec.EmployeeName,
			rec.Date,
			rec.Time,
			rec.HourlyWage,
			rec.LateMinutes,
			rec.LateDiscount,
			rec.IsLateArrival,
			rec.LunchExtraMinutes,
			rec.LunchDiscount,
			rec.LunchOutTime,
			rec.LunchReturnTime,
			rec.IsLunchViolation,
			rec.TotalDiscount,
		})
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `DELETE FROM timeclock_result_sets`); err != nil {
			return fmt.Errorf("failed to clear previous result set: %w", err)
		}

		_, err := q.Exec(ctx, `
			INSERT INTO timeclock_result_sets (id, source_filename, uploaded_at, archive_path, skipped_lines)
			VALUES ($1, $2, $3, $4, $5)
		`, setID, set.SourceFilename, set.UploadedAt, set.ArchivePath, set.SkippedLines)
		if err != nil {
			return fmt.Errorf("failed to insert result set: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		copied, err := q.CopyFrom(ctx, pgx.Identifier{"timeclock_records"}, recordColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy records: %w", err)
		}
		if copied != int64(len(rows)) {
			return fmt.Errorf("copied %d of %d records", copied, len(rows))
		}
		return nil
	})
}

// LoadLatest implements timeclock.ResultSetRepository.
func (r *resultSetRepositoryImpl) LoadLatest(ctx context.Context) (timeclock.ResultSet, error) {
	q := GetQuerier(ctx, r.db)

	var set timeclock.ResultSet
	err := q.QueryRow(ctx, `
		SELECT id::text, source_filename, uploaded_at, archive_path, skipped_lines
		FROM timeclock_result_sets
		ORDER BY uploaded_at DESC
		LIMIT 1
	`).Scan(&set.ID, &set.SourceFilename, &set.UploadedAt, &set.ArchivePath, &set.SkippedLines)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ResultSet{}, timeclock.ErrNoResultSet
		}
		return timeclock.ResultSet{}, fmt.Errorf("failed to load result set: %w", err)
	}
	set.UploadedAt = set.UploadedAt.UTC()

	rows, err := q.Query(ctx, `
		SELECT id::text, employee_name, record_date, record_time, hourly_wage,
			late_minutes, late_discount, is_late_arrival,
			lunch_extra_minutes, lunch_discount, lunch_out_time, lunch_return_time,
			is_lunch_violation, total_discount
		FROM timeclock_records
		WHERE result_set_id = $1
		ORDER BY position
	`, set.ID)
	if err != nil {
		return timeclock.ResultSet{}, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	set.Records = make([]timeclock.Record, 0)
	for rows.Next() {
		var rec timeclock.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.EmployeeName,
			&rec.Date,
			&rec.Time,
			&rec.HourlyWage,
			&rec.LateMinutes,
			&rec.LateDiscount,
			&rec.IsLateArrival,
			&rec.LunchExtraMinutes,
			&rec.LunchDiscount,
			&rec.LunchOutTime,
			&rec.LunchReturnTime,
			&rec.IsLunchViolation,
			&rec.TotalDiscount,
		); err != nil {
			return timeclock.ResultSet{}, fmt.Errorf("failed to scan record: %w", err)
		}
		set.Records = append(set.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return timeclock.ResultSet{}, fmt.Errorf("failed to iterate records: %w", err)
	}

	return set, nil
}
