package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventattendance/internal/domain"
)

const eventColumns = `id, name, description, location_name, longitude, latitude, speaker, type, category_id,
		start_date, end_date, status, attendance_mode, max_attendees, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// eventRow collects the scan targets for eventColumns so joins can append their own.
type eventRow struct {
	e domain.Event

	descNull, locNull, speaker, categoryNl sql.NullString
}

func (s *eventRow) dest() []any {
	e := &s.e
	return []any{
		&e.ID, &e.Name, &s.descNull, &s.locNull, &e.Longitude, &e.Latitude, &s.speaker, &e.Type, &s.categoryNl,
		&e.StartDate, &e.EndDate, &e.Status, &e.AttendanceMode, &e.MaxAttendees, &e.CreatedAt, &e.UpdatedAt,
	}
}

func (s *eventRow) event() *domain.Event {
	e := s.e
	e.Description = stringPtr(s.descNull)
	e.LocationName = stringPtr(s.locNull)
	e.Speaker = stringPtr(s.speaker)
	e.CategoryID = stringPtr(s.categoryNl)
	return &e
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var er eventRow
	if err := row.Scan(er.dest()...); err != nil {
		return nil, err
	}
	return er.event(), nil
}

// qualifiedEventColumns prefixes eventColumns with a table alias.
func qualifiedEventColumns(alias string) string {
	cols := strings.Split(eventColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event, rundowns []*domain.EventRundown) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
			INSERT INTO events (name, description, location_name, longitude, latitude, speaker, type, category_id,
				start_date, end_date, status, attendance_mode, max_attendees, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			e.Name, nullString(e.Description), nullString(e.LocationName), e.Longitude, e.Latitude,
			nullString(e.Speaker), e.Type, nullString(e.CategoryID), e.StartDate, e.EndDate,
			e.Status, e.AttendanceMode, e.MaxAttendees, e.CreatedAt, e.UpdatedAt,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		return insertRundowns(ctx, tx, e.ID, rundowns)
	})
}

func insertRundowns(ctx context.Context, tx *sql.Tx, eventID string, rundowns []*domain.EventRundown) error {
	query := `
		INSERT INTO event_rundowns (event_id, title, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, rd := range rundowns {
		rd.EventID = eventID
		if err := tx.QueryRowContext(ctx, query, eventID, rd.Title, rd.StartTime, rd.EndTime, nullString(rd.Description)).Scan(&rd.ID); err != nil {
			return fmt.Errorf("insert rundown: %w", err)
		}
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var where []string
	var args []any
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Mode != "" {
		args = append(args, filter.Mode)
		where = append(where, fmt.Sprintf("attendance_mode = $%d", len(args)))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM events%s ORDER BY start_date DESC LIMIT $%d OFFSET $%d`,
		eventColumns, whereSQL, len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListByStatuses(ctx context.Context, statuses []domain.EventStatus) ([]*domain.Event, error) {
	codes := make([]string, len(statuses))
	for i, s := range statuses {
		codes[i] = string(s)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = ANY($1) ORDER BY start_date ASC`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(codes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event, rundowns []*domain.EventRundown) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
			UPDATE events SET name = $2, description = $3, location_name = $4, longitude = $5, latitude = $6,
				speaker = $7, type = $8, category_id = $9, start_date = $10, end_date = $11,
				attendance_mode = $12, max_attendees = $13, updated_at = $14
			WHERE id = $1
		`
		result, err := tx.ExecContext(ctx, query,
			e.ID, e.Name, nullString(e.Description), nullString(e.LocationName), e.Longitude, e.Latitude,
			nullString(e.Speaker), e.Type, nullString(e.CategoryID), e.StartDate, e.EndDate,
			e.AttendanceMode, e.MaxAttendees, e.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_rundowns WHERE event_id = $1`, e.ID); err != nil {
			return fmt.Errorf("clear rundowns: %w", err)
		}
		return insertRundowns(ctx, tx, e.ID, rundowns)
	})
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, from, to domain.EventStatus) (*domain.Event, error) {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3 RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, to, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidStatusTransition
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListRundowns(ctx context.Context, eventID string) ([]*domain.EventRundown, error) {
	query := `
		SELECT id, event_id, title, start_time, end_time, description
		FROM event_rundowns
		WHERE event_id = $1
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rundowns := make([]*domain.EventRundown, 0)
	for rows.Next() {
		rd := &domain.EventRundown{}
		var descNull sql.NullString
		if err := rows.Scan(&rd.ID, &rd.EventID, &rd.Title, &rd.StartTime, &rd.EndTime, &descNull); err != nil {
			return nil, err
		}
		rd.Description = stringPtr(descNull)
		rundowns = append(rundowns, rd)
	}
	return rundowns, rows.Err()
}

func (r *eventRepository) ReplaceRundowns(ctx context.Context, eventID string, rundowns []*domain.EventRundown) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_rundowns WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("clear rundowns: %w", err)
		}
		return insertRundowns(ctx, tx, eventID, rundowns)
	})
}
