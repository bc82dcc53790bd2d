package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ipam-control-plane/internal/address/domain"
	"ipam-control-plane/internal/db"
)

const addressColumns = `id, ip, status, room_id, company_id, mac_address, holder_name, temporary,
	expires_at, last_renewed_at, assigned_at, created_at, updated_at`

// SQLRepository implements Repository over database/sql for Postgres and SQLite.
type SQLRepository struct {
	q       db.DBTX
	dialect db.Dialect
}

// NewSQLRepository returns an address repository that runs its queries on q (a *sql.DB or *sql.Tx).
func NewSQLRepository(q db.DBTX, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{q: q, dialect: dialect}
}

// GetByID returns the address for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	return r.getOne(ctx, `SELECT `+addressColumns+` FROM ip_addresses WHERE id = ?`, id)
}

// GetByIDForUpdate is GetByID with a row lock held until the transaction ends.
func (r *SQLRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Address, error) {
	return r.getOne(ctx, `SELECT `+addressColumns+` FROM ip_addresses WHERE id = ?`+r.dialect.ForUpdate(), id)
}

// FindAvailableInRoom returns the first available address in the room ordered by IP literal, or nil.
// On Postgres rows locked by a concurrent approval are skipped.
func (r *SQLRepository) FindAvailableInRoom(ctx context.Context, roomID string) (*domain.Address, error) {
	q := `SELECT ` + addressColumns + ` FROM ip_addresses WHERE room_id = ? AND status = ? ORDER BY ip, id LIMIT 1` +
		r.dialect.ForUpdateSkipLocked()
	return r.getOne(ctx, q, roomID, string(domain.StatusAvailable))
}

// ListByCompany returns the addresses currently lent to companyID.
func (r *SQLRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Address, error) {
	return r.list(ctx, `SELECT `+addressColumns+` FROM ip_addresses WHERE company_id = ? ORDER BY ip, id`, companyID)
}

// ListExpired returns in-use addresses whose expiry is at or before now, oldest expiry first.
func (r *SQLRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Address, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, `SELECT `+addressColumns+` FROM ip_addresses
		WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= ?
		ORDER BY expires_at, id LIMIT ?`, string(domain.StatusInUse), now.UTC(), limit)
}

// Create persists a provisioned address. The address must have ID set.
func (r *SQLRepository) Create(ctx context.Context, a *domain.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO ip_addresses (`+addressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.IP, string(a.Status), a.RoomID, db.NullString(a.CompanyID), db.NullString(a.MACAddress),
		db.NullString(a.HolderName), a.Temporary, db.NullTime(a.ExpiresAt), db.NullTime(a.LastRenewedAt),
		db.NullTime(a.AssignedAt), a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	return err
}

// Assign lends a to the assignment's company. The row must still be available.
func (r *SQLRepository) Assign(ctx context.Context, a *domain.Address, asg domain.Assignment, at time.Time) (*domain.Address, error) {
	next := *a
	next.Assign(asg, at.UTC())
	if err := r.save(ctx, &next, domain.StatusAvailable); err != nil {
		return nil, err
	}
	return &next, nil
}

// Release clears the assignment and returns the address to available. The row must still be in use.
func (r *SQLRepository) Release(ctx context.Context, a *domain.Address, at time.Time) (*domain.Address, error) {
	next := *a
	next.ClearAssignment(at.UTC())
	if err := r.save(ctx, &next, domain.StatusInUse); err != nil {
		return nil, err
	}
	return &next, nil
}

// Renew sets a new expiry and the renewal time, forcing the status to in use.
func (r *SQLRepository) Renew(ctx context.Context, a *domain.Address, expiresAt *time.Time, at time.Time) (*domain.Address, error) {
	next := *a
	next.Renew(expiresAt, at.UTC())
	if err := r.save(ctx, &next, a.Status); err != nil {
		return nil, err
	}
	return &next, nil
}

// save writes every mutable column, guarded by the status the caller observed.
func (r *SQLRepository) save(ctx context.Context, a *domain.Address, expected domain.Status) error {
	if err := a.Validate(); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, r.dialect.Rebind(`UPDATE ip_addresses SET
		status = ?, company_id = ?, mac_address = ?, holder_name = ?, temporary = ?,
		expires_at = ?, last_renewed_at = ?, assigned_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`),
		string(a.Status), db.NullString(a.CompanyID), db.NullString(a.MACAddress), db.NullString(a.HolderName),
		a.Temporary, db.NullTime(a.ExpiresAt), db.NullTime(a.LastRenewedAt), db.NullTime(a.AssignedAt),
		a.UpdatedAt.UTC(), a.ID, string(expected))
	if err != nil {
		return fmt.Errorf("update address %s: %w", a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrStaleAddress
	}
	return nil
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Address, error) {
	a, err := scanAddress(r.q.QueryRowContext(ctx, r.dialect.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Address, error) {
	rows, err := r.q.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (*domain.Address, error) {
	var (
		a                                domain.Address
		status                           string
		company, mac, holder             sql.NullString
		expiresAt, renewedAt, assignedAt sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.IP, &status, &a.RoomID, &company, &mac, &holder, &a.Temporary,
		&expiresAt, &renewedAt, &assignedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.Status(status)
	a.CompanyID = db.StringPtr(company)
	a.MACAddress = db.StringPtr(mac)
	a.HolderName = db.StringPtr(holder)
	a.ExpiresAt = db.TimePtr(expiresAt)
	a.LastRenewedAt = db.TimePtr(renewedAt)
	a.AssignedAt = db.TimePtr(assignedAt)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
