package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ipam-control-plane/internal/db"
	"ipam-control-plane/internal/iprequest/domain"
)

const requestColumns = `id, type, status, company_id, address_id, requested_by, justification, mac_address,
	holder_name, temporary, requested_expiry, rejection_reason, approved_by, created_at, responded_at`

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// SQLRepository implements Repository over database/sql for Postgres and SQLite.
type SQLRepository struct {
	q       db.DBTX
	dialect db.Dialect
}

// NewSQLRepository returns a request repository that runs its queries on q.
func NewSQLRepository(q db.DBTX, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{q: q, dialect: dialect}
}

// GetByID returns the request for id, or nil if not found.
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	return r.getOne(ctx, `SELECT `+requestColumns+` FROM ip_requests WHERE id = ?`, id)
}

// GetByIDForUpdate is GetByID with a row lock held until the transaction ends.
func (r *SQLRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Request, error) {
	return r.getOne(ctx, `SELECT `+requestColumns+` FROM ip_requests WHERE id = ?`+r.dialect.ForUpdate(), id)
}

// Create persists a new request.
func (r *SQLRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.q.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO ip_requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		req.ID, string(req.Type), string(req.Status), req.CompanyID, db.NullString(req.AddressID),
		req.RequestedBy, req.Justification, db.NullString(req.MACAddress), db.NullString(req.HolderName),
		req.Temporary, db.NullTime(req.RequestedExpiry), nullText(req.RejectionReason),
		db.NullString(req.ApprovedBy), req.CreatedAt.UTC(), db.NullTime(req.RespondedAt))
	if err != nil {
		return fmt.Errorf("insert request %s: %w", req.ID, err)
	}
	return nil
}

// UpdateDecision writes the decided fields, guarded by status = pending.
func (r *SQLRepository) UpdateDecision(ctx context.Context, req *domain.Request) error {
	res, err := r.q.ExecContext(ctx, r.dialect.Rebind(`UPDATE ip_requests SET
		status = ?, address_id = ?, rejection_reason = ?, approved_by = ?, responded_at = ?
		WHERE id = ? AND status = ?`),
		string(req.Status), db.NullString(req.AddressID), nullText(req.RejectionReason),
		db.NullString(req.ApprovedBy), db.NullTime(req.RespondedAt), req.ID, string(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("update request %s: %w", req.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrStaleRequest
	}
	return nil
}

// List returns requests matching f, newest first.
func (r *SQLRepository) List(ctx context.Context, f Filter) ([]*domain.Request, error) {
	var (
		where []string
		args  []any
	)
	if f.CompanyID != "" {
		where = append(where, "company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	q := `SELECT ` + requestColumns + ` FROM ip_requests`
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
	q += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.q.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Request, error) {
	req, err := scanRequest(r.q.QueryRowContext(ctx, r.dialect.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// nullText keeps empty strings; a rejection reason is stored verbatim.
func nullText(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var (
		req                          domain.Request
		typ, status                  string
		addressID, mac, holder       sql.NullString
		reason, approvedBy           sql.NullString
		requestedExpiry, respondedAt sql.NullTime
	)
	if err := row.Scan(&req.ID, &typ, &status, &req.CompanyID, &addressID, &req.RequestedBy,
		&req.Justification, &mac, &holder, &req.Temporary, &requestedExpiry, &reason, &approvedBy,
		&req.CreatedAt, &respondedAt); err != nil {
		return nil, err
	}
	req.Type = domain.Type(typ)
	req.Status = domain.Status(status)
	req.AddressID = db.StringPtr(addressID)
	req.MACAddress = db.StringPtr(mac)
	req.HolderName = db.StringPtr(holder)
	req.RequestedExpiry = db.TimePtr(requestedExpiry)
	req.RejectionReason = db.StringPtr(reason)
	req.ApprovedBy = db.StringPtr(approvedBy)
	req.RespondedAt = db.TimePtr(respondedAt)
	req.CreatedAt = req.CreatedAt.UTC()
	return &req, nil
}
