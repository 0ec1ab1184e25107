package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventattendance/internal/domain"
)

// Unique constraints on event_attendees, see migrations/0001_init.sql.
const (
	ticketEventUserKey = "event_attendees_event_user_key"
	ticketCodeKey      = "event_attendees_ticket_code_key"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{DB: db}
}

func (r *ticketRepository) CreateWithinCapacity(ctx context.Context, t *domain.Ticket, capacity int) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, t.EventID).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}
		if capacity > 0 {
			var issued int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, t.EventID).Scan(&issued); err != nil {
				return fmt.Errorf("count tickets: %w", err)
			}
			if issued >= capacity {
				return domain.ErrQuotaExceeded
			}
		}
		query := `
			INSERT INTO event_attendees (event_id, user_id, ticket_code, registered_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query, t.EventID, t.UserID, t.TicketCode, t.RegisteredAt).Scan(&t.ID)
		if constraint, ok := uniqueConstraint(err); ok {
			if constraint == ticketCodeKey {
				return fmt.Errorf("ticket code collision: %w", domain.ErrConflict)
			}
			return domain.ErrAlreadyRegistered
		}
		return err
	})
}

const ticketColumns = `a.id, a.event_id, a.user_id, a.ticket_code, a.registered_at`

func ticketDest(t *domain.Ticket) []any {
	return []any{&t.ID, &t.EventID, &t.UserID, &t.TicketCode, &t.RegisteredAt}
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	err := r.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM event_attendees a WHERE a.id = $1`, id).Scan(ticketDest(t)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM event_attendees a WHERE a.event_id = $1 AND a.user_id = $2`
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(ticketDest(t)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) GetByEventAndCode(ctx context.Context, eventID, code string) (*domain.TicketWithHolder, error) {
	query := `
		SELECT ` + ticketColumns + `, u.name, u.email
		FROM event_attendees a
		INNER JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1 AND a.ticket_code = $2
	`
	t := &domain.Ticket{}
	out := &domain.TicketWithHolder{Ticket: t}
	err := r.DB.QueryRowContext(ctx, query, eventID, code).Scan(append(ticketDest(t), &out.HolderName, &out.HolderEmail)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *ticketRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

func (r *ticketRepository) ListActiveByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.TicketWithEvent, int, error) {
	const from = `
		FROM event_attendees a
		INNER JOIN events e ON e.id = a.event_id
		WHERE a.user_id = $1 AND e.status <> 'completed'
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+from, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + ticketColumns + `, ` + qualifiedEventColumns("e") + from + `ORDER BY a.registered_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.TicketWithEvent, 0)
	for rows.Next() {
		t := &domain.Ticket{}
		var er eventRow
		if err := rows.Scan(append(ticketDest(t), er.dest()...)...); err != nil {
			return nil, 0, err
		}
		out = append(out, &domain.TicketWithEvent{Ticket: t, Event: er.event()})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ticketRepository) ListByEvent(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	from := `
		FROM event_attendees a
		INNER JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
	`
	args := []any{eventID}
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, "%"+s+"%")
		from += ` AND (u.name ILIKE $2 OR u.email ILIKE $2 OR a.ticket_code ILIKE $2)`
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s, u.name, u.email %s ORDER BY a.registered_at DESC LIMIT $%d OFFSET $%d`,
		ticketColumns, from, len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.TicketWithHolder, 0)
	for rows.Next() {
		t := &domain.Ticket{}
		h := &domain.TicketWithHolder{Ticket: t}
		if err := rows.Scan(append(ticketDest(t), &h.HolderName, &h.HolderEmail)...); err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
