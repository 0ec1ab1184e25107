package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventattendance/internal/domain"
)

const attendanceColumns = `t.id, t.event_id, t.user_id, t.attendee_id, t.scanned_barcode_value, t.name,
		t.origin_institution, t.longitude, t.latitude, t.scanned_at`

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

type attendanceRow struct {
	a domain.Attendance

	userNull, ticketNull, institutionNull sql.NullString
}

func (s *attendanceRow) dest() []any {
	a := &s.a
	return []any{
		&a.ID, &a.EventID, &s.userNull, &s.ticketNull, &a.ScannedValue, &a.Name,
		&s.institutionNull, &a.Longitude, &a.Latitude, &a.ScannedAt,
	}
}

func (s *attendanceRow) attendance() *domain.Attendance {
	a := s.a
	a.UserID = stringPtr(s.userNull)
	a.TicketID = stringPtr(s.ticketNull)
	a.OriginInstitution = stringPtr(s.institutionNull)
	return &a
}

// Create inserts the attendance row. The table carries one unique constraint per proof
// of entry; losing a race on any of them means the proof was already consumed.
func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	query := `
		INSERT INTO event_attendance (event_id, user_id, attendee_id, scanned_barcode_value, name,
			origin_institution, longitude, latitude, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.EventID, nullString(a.UserID), nullString(a.TicketID), a.ScannedValue, a.Name,
		nullString(a.OriginInstitution), a.Longitude, a.Latitude, a.ScannedAt,
	).Scan(&a.ID)
	if _, ok := uniqueConstraint(err); ok {
		return domain.ErrAlreadyCheckedIn
	}
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (r *attendanceRepository) ExistsForTicket(ctx context.Context, eventID, ticketID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_attendance WHERE event_id = $1 AND attendee_id = $2)`
	err := r.DB.QueryRowContext(ctx, query, eventID, ticketID).Scan(&exists)
	return exists, err
}

func (r *attendanceRepository) ExistsForUser(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_attendance WHERE event_id = $1 AND user_id = $2)`
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists)
	return exists, err
}

func (r *attendanceRepository) getOne(ctx context.Context, where string, args ...any) (*domain.Attendance, error) {
	var row attendanceRow
	err := r.DB.QueryRowContext(ctx, `SELECT `+attendanceColumns+` FROM event_attendance t WHERE `+where, args...).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return row.attendance(), nil
}

func (r *attendanceRepository) GetByEventAndScanValue(ctx context.Context, eventID, value string) (*domain.Attendance, error) {
	return r.getOne(ctx, `t.event_id = $1 AND t.scanned_barcode_value = $2`, eventID, value)
}

func (r *attendanceRepository) GetByEventAndTicket(ctx context.Context, eventID, ticketID string) (*domain.Attendance, error) {
	return r.getOne(ctx, `t.event_id = $1 AND t.attendee_id = $2`, eventID, ticketID)
}

func (r *attendanceRepository) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Attendance, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_attendance WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + attendanceColumns + `
		FROM event_attendance t
		WHERE t.event_id = $1
		ORDER BY t.scanned_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.Attendance, 0)
	for rows.Next() {
		var row attendanceRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, 0, err
		}
		out = append(out, row.attendance())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.AttendanceWithEvent, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_attendance WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + attendanceColumns + `, e.name, e.start_date
		FROM event_attendance t
		INNER JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1
		ORDER BY t.scanned_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.AttendanceWithEvent, 0)
	for rows.Next() {
		var row attendanceRow
		item := &domain.AttendanceWithEvent{}
		if err := rows.Scan(append(row.dest(), &item.EventName, &item.EventStart)...); err != nil {
			return nil, 0, err
		}
		item.Attendance = row.attendance()
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
