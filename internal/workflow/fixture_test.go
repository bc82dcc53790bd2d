package workflow_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	addressdomain "ipam-control-plane/internal/address/domain"
	"ipam-control-plane/internal/db"
	directorydomain "ipam-control-plane/internal/directory/domain"
	historydomain "ipam-control-plane/internal/history/domain"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	requestrepo "ipam-control-plane/internal/iprequest/repository"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/store"
	"ipam-control-plane/internal/workflow"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*notify.Event
	ch     chan *notify.Event
}

func (c *capturePublisher) Publish(ctx context.Context, e *notify.Event) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	select {
	case c.ch <- e:
	default:
	}
	return nil
}

func (c *capturePublisher) Close() error { return nil }

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *store.SQL
	svc   *workflow.Service
	pub   *capturePublisher
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureAt(t, db.MemoryPath)
}

// newFileFixture backs the store with a file so several connections can contend for the write lock.
func newFileFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureAt(t, filepath.Join(t.TempDir(), "ipam.db"))
}

func newFixtureAt(t *testing.T, path string) *fixture {
	t.Helper()
	conn, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store.NewSQL(conn, db.SQLite),
		pub:   &capturePublisher{ch: make(chan *notify.Event, 16)},
		now:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.svc = workflow.NewService(f.store, nil,
		workflow.WithClock(func() time.Time { return f.now }),
		workflow.WithPublisher(f.pub))
	return f
}

// tick advances the clock so consecutive operations get distinct timestamps.
func (f *fixture) tick() {
	f.now = f.now.Add(time.Minute)
}

func (f *fixture) room(id string) string {
	f.t.Helper()
	if err := f.store.Repos().Tenants().CreateRoom(f.ctx, &directorydomain.Room{ID: id, Name: "Room " + id, CreatedAt: f.now}); err != nil {
		f.t.Fatalf("CreateRoom: %v", err)
	}
	return id
}

// company creates a company in roomID; an empty roomID leaves it without a room.
func (f *fixture) company(id, roomID string) workflow.Actor {
	f.t.Helper()
	c := &directorydomain.Company{ID: id, Name: "Company " + id, Email: id + "@example.com", CreatedAt: f.now}
	if roomID != "" {
		c.RoomID = &roomID
	}
	if err := f.store.Repos().Tenants().CreateCompany(f.ctx, c); err != nil {
		f.t.Fatalf("CreateCompany: %v", err)
	}
	return workflow.Actor{UserID: "user-" + id, CompanyID: id, Role: workflow.RoleCompany}
}

func (f *fixture) address(id, ip, roomID string) {
	f.t.Helper()
	a := &addressdomain.Address{ID: id, IP: ip, Status: addressdomain.StatusAvailable, RoomID: roomID, CreatedAt: f.now, UpdatedAt: f.now}
	if err := f.store.Repos().Inventory().Create(f.ctx, a); err != nil {
		f.t.Fatalf("Create address: %v", err)
	}
}

func (f *fixture) getAddress(id string) *addressdomain.Address {
	f.t.Helper()
	a, err := f.store.Repos().Inventory().GetByID(f.ctx, id)
	if err != nil || a == nil {
		f.t.Fatalf("GetByID(%s) = %v, %v", id, a, err)
	}
	return a
}

func (f *fixture) getRequest(id string) *requestdomain.Request {
	f.t.Helper()
	r, err := f.store.Repos().Requests().GetByID(f.ctx, id)
	if err != nil || r == nil {
		f.t.Fatalf("GetByID(%s) = %v, %v", id, r, err)
	}
	return r
}

func (f *fixture) history(addressID string) []*historydomain.Entry {
	f.t.Helper()
	entries, err := f.store.Repos().History().ListByAddress(f.ctx, addressID)
	if err != nil {
		f.t.Fatalf("ListByAddress: %v", err)
	}
	return entries
}

func (f *fixture) create(actor workflow.Actor, in workflow.CreateInput) *requestdomain.Request {
	f.t.Helper()
	view, err := f.svc.Create(f.ctx, in, actor)
	if err != nil {
		f.t.Fatalf("Create(%s): %v", in.Type, err)
	}
	f.tick()
	return view.Request
}

func (f *fixture) approve(requestID string) *workflow.RequestView {
	f.t.Helper()
	view, err := f.svc.Approve(f.ctx, requestID, approver)
	if err != nil {
		f.t.Fatalf("Approve(%s): %v", requestID, err)
	}
	f.tick()
	return view
}

// lease gives addressID to actor's company through an approved new request.
func (f *fixture) lease(actor workflow.Actor, addressID string, in workflow.CreateInput) {
	f.t.Helper()
	in.Type = requestdomain.TypeNew
	in.AddressID = &addressID
	f.approve(f.create(actor, in).ID)
}

var approver = workflow.Actor{UserID: "approver-1", Role: workflow.RoleApprover}

func actions(entries []*historydomain.Entry) []historydomain.Action {
	out := make([]historydomain.Action, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func requestrepoFilter() requestrepo.Filter { return requestrepo.Filter{} }
