// Package store binds the SQL repositories to one connection or transaction and exposes them as
// the workflow's unit of work.
package store

import (
	"context"
	"database/sql"

	addressrepo "ipam-control-plane/internal/address/repository"
	"ipam-control-plane/internal/db"
	directoryrepo "ipam-control-plane/internal/directory/repository"
	historyrepo "ipam-control-plane/internal/history/repository"
	requestrepo "ipam-control-plane/internal/iprequest/repository"
	"ipam-control-plane/internal/workflow"
)

// SQL implements workflow.Store over a *sql.DB.
type SQL struct {
	conn    *sql.DB
	dialect db.Dialect
}

// NewSQL returns a store for conn using the dialect's placeholder and locking rules.
func NewSQL(conn *sql.DB, dialect db.Dialect) *SQL {
	return &SQL{conn: conn, dialect: dialect}
}

// RunInTx runs fn with repositories bound to a fresh transaction.
func (s *SQL) RunInTx(ctx context.Context, fn func(tx workflow.Tx) error) error {
	return db.RunInTx(ctx, s.conn, func(tx *sql.Tx) error {
		return fn(Bind(tx, s.dialect))
	})
}

// Reader returns repositories bound to the pool. Never use it inside RunInTx: an in-memory SQLite
// store has a single connection.
func (s *SQL) Reader() workflow.Tx {
	return s.Repos()
}

// Repos returns the concrete repositories bound to the pool, for provisioning tools and tests.
func (s *SQL) Repos() *Repos {
	return Bind(s.conn, s.dialect)
}

// Ping checks the database connection.
func (s *SQL) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Dialect returns the store's SQL dialect.
func (s *SQL) Dialect() db.Dialect {
	return s.dialect
}

// Repos is the set of repositories sharing one DBTX. It satisfies workflow.Tx.
type Repos struct {
	addresses *addressrepo.SQLRepository
	requests  *requestrepo.SQLRepository
	history   *historyrepo.SQLRepository
	directory *directoryrepo.SQLRepository
}

// Bind returns repositories that run their queries on q.
func Bind(q db.DBTX, dialect db.Dialect) *Repos {
	return &Repos{
		addresses: addressrepo.NewSQLRepository(q, dialect),
		requests:  requestrepo.NewSQLRepository(q, dialect),
		history:   historyrepo.NewSQLRepository(q, dialect),
		directory: directoryrepo.NewSQLRepository(q, dialect),
	}
}

func (r *Repos) Addresses() workflow.AddressRepo   { return r.addresses }
func (r *Repos) Requests() workflow.RequestRepo    { return r.requests }
func (r *Repos) History() workflow.HistoryRepo     { return r.history }
func (r *Repos) Directory() workflow.DirectoryRepo { return r.directory }

// Inventory exposes the full address repository, including provisioning.
func (r *Repos) Inventory() addressrepo.Repository { return r.addresses }

// Tenants exposes the full directory repository, including provisioning.
func (r *Repos) Tenants() directoryrepo.Repository { return r.directory }
