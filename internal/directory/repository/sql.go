package repository

import (
	"context"
	"database/sql"
	"errors"

	"ipam-control-plane/internal/db"
	"ipam-control-plane/internal/directory/domain"
)

// SQLRepository implements Repository over database/sql.
type SQLRepository struct {
	q       db.DBTX
	dialect db.Dialect
}

// NewSQLRepository returns a directory repository that runs its queries on q.
func NewSQLRepository(q db.DBTX, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{q: q, dialect: dialect}
}

// FindCompanyWithRoom returns the company and its room (nil Room when unassigned), or nil if the company does not exist.
func (r *SQLRepository) FindCompanyWithRoom(ctx context.Context, companyID string) (*domain.CompanyWithRoom, error) {
	var (
		c             domain.Company
		email, roomID sql.NullString
		rID, rName    sql.NullString
		rCreated      sql.NullTime
	)
	err := r.q.QueryRowContext(ctx, r.dialect.Rebind(`SELECT c.id, c.name, c.email, c.room_id, c.created_at,
		rm.id, rm.name, rm.created_at
		FROM companies c LEFT JOIN rooms rm ON rm.id = c.room_id
		WHERE c.id = ?`), companyID).
		Scan(&c.ID, &c.Name, &email, &roomID, &c.CreatedAt, &rID, &rName, &rCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Email = email.String
	c.RoomID = db.StringPtr(roomID)
	c.CreatedAt = c.CreatedAt.UTC()
	out := &domain.CompanyWithRoom{Company: &c}
	if rID.Valid {
		out.Room = &domain.Room{ID: rID.String, Name: rName.String, CreatedAt: rCreated.Time.UTC()}
	}
	return out, nil
}

// GetCompany returns the company for id, or nil if not found.
func (r *SQLRepository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	cwr, err := r.FindCompanyWithRoom(ctx, id)
	if err != nil || cwr == nil {
		return nil, err
	}
	return cwr.Company, nil
}

// CreateRoom persists a room. The room must have ID set.
func (r *SQLRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	_, err := r.q.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO rooms (id, name, created_at) VALUES (?, ?, ?)`),
		room.ID, room.Name, room.CreatedAt.UTC())
	return err
}

// CreateCompany persists a company. The company must have ID set.
func (r *SQLRepository) CreateCompany(ctx context.Context, c *domain.Company) error {
	email := c.Email
	_, err := r.q.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO companies (id, name, email, room_id, created_at) VALUES (?, ?, ?, ?, ?)`),
		c.ID, c.Name, db.NullString(&email), db.NullString(c.RoomID), c.CreatedAt.UTC())
	return err
}

// SetCompanyRoom moves a company to roomID, or detaches it when roomID is nil.
// It returns false when the company does not exist.
func (r *SQLRepository) SetCompanyRoom(ctx context.Context, companyID string, roomID *string) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.dialect.Rebind(`UPDATE companies SET room_id = ? WHERE id = ?`),
		db.NullString(roomID), companyID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
