package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ipam-control-plane/internal/db"
	"ipam-control-plane/internal/history/domain"
)

const entryColumns = `id, address_id, company_id, action, performed_by, mac_address, holder_name, notes,
	expires_at, created_at`

// Entries written in the same instant keep insertion order through seq.
const newestFirst = ` ORDER BY created_at DESC, seq DESC`

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// SQLRepository implements Repository over database/sql for Postgres and SQLite.
type SQLRepository struct {
	q       db.DBTX
	dialect db.Dialect
}

// NewSQLRepository returns a history repository that runs its queries on q.
func NewSQLRepository(q db.DBTX, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{q: q, dialect: dialect}
}

// Append inserts one entry. The entry must have ID and CreatedAt set.
func (r *SQLRepository) Append(ctx context.Context, e *domain.Entry) error {
	if !e.Action.Valid() {
		return fmt.Errorf("history: unknown action %q", e.Action)
	}
	_, err := r.q.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO ip_history (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.AddressID, db.NullString(e.CompanyID), string(e.Action), e.PerformedBy,
		db.NullString(e.MACAddress), db.NullString(e.HolderName), db.NullString(e.Notes),
		db.NullTime(e.ExpiresAt), e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("append history %s for %s: %w", e.Action, e.AddressID, err)
	}
	return nil
}

// ListByAddress returns every entry for addressID, newest first.
func (r *SQLRepository) ListByAddress(ctx context.Context, addressID string) ([]*domain.Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM ip_history WHERE address_id = ?`+newestFirst, addressID)
}

// List returns entries matching f, newest first.
func (r *SQLRepository) List(ctx context.Context, f Filter) ([]*domain.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.CompanyID != "" {
		where = append(where, "company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.AddressID != "" {
		where = append(where, "address_id = ?")
		args = append(args, f.AddressID)
	}
	if f.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(f.Action))
	}
	if f.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, f.To.UTC())
	}
	q := `SELECT ` + entryColumns + ` FROM ip_history`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	q += newestFirst + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return r.query(ctx, q, args...)
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Entry, error) {
	rows, err := r.q.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Entry
	for rows.Next() {
		var (
			e                          domain.Entry
			action                     string
			company, mac, holder, note sql.NullString
			expiresAt                  sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.AddressID, &company, &action, &e.PerformedBy, &mac, &holder, &note,
			&expiresAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = domain.Action(action)
		e.CompanyID = db.StringPtr(company)
		e.MACAddress = db.StringPtr(mac)
		e.HolderName = db.StringPtr(holder)
		e.Notes = db.StringPtr(note)
		e.ExpiresAt = db.TimePtr(expiresAt)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, &e)
	}
	return out, rows.Err()
}
