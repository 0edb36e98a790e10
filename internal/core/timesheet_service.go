package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TimeStatus reports the caller's currently open entry and break, if
// any. Both pointers are nil when the user is clocked out.
type TimeStatus struct {
	OpenEntry *TimeEntry `json:"openEntry"`
	OpenBreak *TimeBreak `json:"openBreak"`
}

// TimesheetService tracks clock-in/clock-out sessions and breaks.
// Durations are stored in minutes, rounded to the nearest five at the
// moment an entry or break is closed.
type TimesheetService interface {
	ClockIn(ctx context.Context, companyID, userID int) (*TimeEntry, error)
	ClockOut(ctx context.Context, userID int) (*TimeEntry, error)
	StartBreak(ctx context.Context, userID int) (*TimeBreak, error)
	EndBreak(ctx context.Context, userID int) (*TimeBreak, error)
	Status(ctx context.Context, userID int) (*TimeStatus, error)
	// Entries returns the most recent entries for the company. Admins
	// and managers see everyone; other roles see only their own rows.
	Entries(ctx context.Context, companyID, userID int, role Role) ([]TimeEntry, error)
	// Summary aggregates closed net minutes per user, optionally bounded
	// by start_time (inclusive dates in YYYY-MM-DD or RFC 3339 form).
	Summary(ctx context.Context, companyID, userID int, role Role, start, end string) ([]TimeSummaryRow, error)
}

type timesheetService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewTimesheetService(pool *pgxpool.Pool) TimesheetService {
	return &timesheetService{pool: pool, now: time.Now}
}

func (s *timesheetService) ClockIn(ctx context.Context, companyID, userID int) (*TimeEntry, error) {
	open, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, NewValidationError("you already have an open time entry")
	}

	entry := &TimeEntry{CompanyID: companyID, UserID: userID, Status: TimeEntryOpen}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO time_entries (company_id, user_id, start_time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, start_time
	`, companyID, userID, s.now().UTC(), string(TimeEntryOpen)).Scan(&entry.ID, &entry.StartTime)
	if err != nil {
		return nil, &PersistenceError{Op: "clock in", Err: err}
	}
	return entry, nil
}

func (s *timesheetService) ClockOut(ctx context.Context, userID int) (*TimeEntry, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NewValidationError("no open time entry to close")
	}

	brk, err := s.openBreak(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if brk != nil {
		return nil, NewValidationError("please end your break before clocking out")
	}

	now := s.now().UTC()
	raw := now.Sub(entry.StartTime).Minutes()
	if raw < 0 {
		raw = 0
	}
	duration := RoundToFiveMinutes(raw)

	var breakRaw float64
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM time_breaks
		WHERE time_entry_id = $1 AND status = $2
	`, entry.ID, string(TimeEntryClosed)).Scan(&breakRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to sum breaks for entry %d: %w", entry.ID, err)
	}
	breakMinutes := RoundToFiveMinutes(breakRaw)
	net := NetWorkedMinutes(duration, breakMinutes)

	_, err = s.pool.Exec(ctx, `
		UPDATE time_entries
		SET end_time = $1, duration_minutes = $2, break_minutes = $3,
		    net_minutes = $4, status = $5
		WHERE id = $6
	`, now, duration, breakMinutes, net, string(TimeEntryClosed), entry.ID)
	if err != nil {
		return nil, &PersistenceError{Op: "clock out", Err: err}
	}

	entry.EndTime = &now
	entry.DurationMinutes = duration
	entry.BreakMinutes = breakMinutes
	entry.NetMinutes = net
	entry.Status = TimeEntryClosed
	return entry, nil
}

func (s *timesheetService) StartBreak(ctx context.Context, userID int) (*TimeBreak, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NewValidationError("you must be clocked in to start a break")
	}

	open, err := s.openBreak(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, NewValidationError("you already have an active break")
	}

	brk := &TimeBreak{TimeEntryID: entry.ID, Status: TimeEntryOpen}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO time_breaks (time_entry_id, start_time, status)
		VALUES ($1, $2, $3)
		RETURNING id, start_time
	`, entry.ID, s.now().UTC(), string(TimeEntryOpen)).Scan(&brk.ID, &brk.StartTime)
	if err != nil {
		return nil, &PersistenceError{Op: "start break", Err: err}
	}
	return brk, nil
}

func (s *timesheetService) EndBreak(ctx context.Context, userID int) (*TimeBreak, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NewValidationError("you must be clocked in to end a break")
	}

	brk, err := s.openBreak(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if brk == nil {
		return nil, NewValidationError("no active break to end")
	}

	now := s.now().UTC()
	raw := now.Sub(brk.StartTime).Minutes()
	if raw < 0 {
		raw = 0
	}
	duration := RoundToFiveMinutes(raw)

	_, err = s.pool.Exec(ctx, `
		UPDATE time_breaks
		SET end_time = $1, duration_minutes = $2, status = $3
		WHERE id = $4
	`, now, duration, string(TimeEntryClosed), brk.ID)
	if err != nil {
		return nil, &PersistenceError{Op: "end break", Err: err}
	}

	brk.EndTime = &now
	brk.DurationMinutes = duration
	brk.Status = TimeEntryClosed
	return brk, nil
}

func (s *timesheetService) Status(ctx context.Context, userID int) (*TimeStatus, error) {
	status := &TimeStatus{}
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return status, nil
	}
	status.OpenEntry = entry

	brk, err := s.openBreak(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	status.OpenBreak = brk
	return status, nil
}

func (s *timesheetService) Entries(ctx context.Context, companyID, userID int, role Role) ([]TimeEntry, error) {
	query := `
		SELECT id, company_id, user_id, start_time, end_time,
		       duration_minutes, break_minutes, net_minutes, status
		FROM time_entries
		WHERE company_id = $1
		ORDER BY start_time DESC
		LIMIT 20
	`
	args := []any{companyID}
	if !role.CanManage() {
		query = `
			SELECT id, company_id, user_id, start_time, end_time,
			       duration_minutes, break_minutes, net_minutes, status
			FROM time_entries
			WHERE company_id = $1 AND user_id = $2
			ORDER BY start_time DESC
			LIMIT 20
		`
		args = append(args, userID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.UserID, &e.StartTime, &e.EndTime,
			&e.DurationMinutes, &e.BreakMinutes, &e.NetMinutes, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("time entry row iteration error: %w", err)
	}
	return entries, nil
}

func (s *timesheetService) Summary(ctx context.Context, companyID, userID int, role Role, start, end string) ([]TimeSummaryRow, error) {
	if err := validateSummaryBound("start", start); err != nil {
		return nil, err
	}
	if err := validateSummaryBound("end", end); err != nil {
		return nil, err
	}

	query := `
		SELECT te.user_id, u.full_name, COALESCE(SUM(te.net_minutes), 0)
		FROM time_entries te
		JOIN users u ON u.id = te.user_id
		WHERE te.company_id = $1 AND te.status = 'closed'
	`
	args := []any{companyID}
	if start != "" {
		args = append(args, start)
		query += fmt.Sprintf(" AND te.start_time >= $%d", len(args))
	}
	if end != "" {
		args = append(args, end)
		query += fmt.Sprintf(" AND te.start_time <= $%d", len(args))
	}
	if !role.CanManage() {
		args = append(args, userID)
		query += fmt.Sprintf(" AND te.user_id = $%d", len(args))
	}
	query += " GROUP BY te.user_id, u.full_name ORDER BY u.full_name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time summary: %w", err)
	}
	defer rows.Close()

	var summary []TimeSummaryRow
	for rows.Next() {
		var row TimeSummaryRow
		if err := rows.Scan(&row.UserID, &row.FullName, &row.Minutes); err != nil {
			return nil, fmt.Errorf("failed to scan time summary row: %w", err)
		}
		summary = append(summary, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("time summary row iteration error: %w", err)
	}
	return summary, nil
}

// validateSummaryBound accepts an empty bound, a YYYY-MM-DD date, or an
// RFC 3339 timestamp. Anything else is rejected before it reaches SQL.
func validateSummaryBound(name, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return nil
	}
	return NewValidationError(name + " must be a YYYY-MM-DD date or RFC 3339 timestamp")
}

func (s *timesheetService) openEntry(ctx context.Context, userID int) (*TimeEntry, error) {
	var e TimeEntry
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, user_id, start_time, status
		FROM time_entries
		WHERE user_id = $1 AND status = 'open'
		ORDER BY start_time DESC
		LIMIT 1
	`, userID).Scan(&e.ID, &e.CompanyID, &e.UserID, &e.StartTime, &e.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up open time entry: %w", err)
	}
	return &e, nil
}

func (s *timesheetService) openBreak(ctx context.Context, entryID int) (*TimeBreak, error) {
	var b TimeBreak
	err := s.pool.QueryRow(ctx, `
		SELECT id, time_entry_id, start_time, status
		FROM time_breaks
		WHERE time_entry_id = $1 AND status = 'open'
		ORDER BY start_time DESC
		LIMIT 1
	`, entryID).Scan(&b.ID, &b.TimeEntryID, &b.StartTime, &b.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up open break: %w", err)
	}
	return &b, nil
}
