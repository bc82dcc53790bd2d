// seed inserts development rooms, companies and addresses and prints bearer tokens for them.
// Idempotent: skips inserts if the first dev company already exists.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	addressdomain "ipam-control-plane/internal/address/domain"
	"ipam-control-plane/internal/config"
	"ipam-control-plane/internal/db"
	directorydomain "ipam-control-plane/internal/directory/domain"
	"ipam-control-plane/internal/security"
	"ipam-control-plane/internal/store"
	"ipam-control-plane/internal/workflow"
)

const (
	devApproverID  = "dev-approver-001"
	addressesEach  = 8
	firstHostOctet = 10
)

type devRoom struct {
	id, name, subnet string
}

type devCompany struct {
	id, name, email, roomID string
}

var (
	rooms = []devRoom{
		{id: "dev-room-a", name: "Lab A", subnet: "10.10.1"},
		{id: "dev-room-b", name: "Lab B", subnet: "10.10.2"},
	}
	companies = []devCompany{
		{id: "dev-company-001", name: "Acme Robotics", email: "it@acme.example", roomID: "dev-room-a"},
		{id: "dev-company-002", name: "Globex Labs", email: "ops@globex.example", roomID: "dev-room-b"},
		{id: "dev-company-003", name: "Initech", email: "admin@initech.example"},
	}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := openDB(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	existing, err := store.Bind(conn, cfg.Dialect()).Tenants().GetCompany(ctx, companies[0].id)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s exists). Skipping inserts.", companies[0].id)
	} else {
		err := db.RunInTx(ctx, conn, func(tx *sql.Tx) error {
			return seed(ctx, store.Bind(tx, cfg.Dialect()), time.Now().UTC())
		})
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("Seeded %d rooms, %d companies, %d addresses.", len(rooms), len(companies), len(rooms)*addressesEach)
	}

	printTokens(cfg)
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.Dialect() == db.SQLite {
		return db.OpenSQLite(cfg.SQLitePath)
	}
	return db.Open(cfg.DatabaseURL)
}

func seed(ctx context.Context, repos *store.Repos, now time.Time) error {
	for _, r := range rooms {
		if err := repos.Tenants().CreateRoom(ctx, &directorydomain.Room{ID: r.id, Name: r.name, CreatedAt: now}); err != nil {
			return fmt.Errorf("create room %s: %w", r.id, err)
		}
		for i := 0; i < addressesEach; i++ {
			a := &addressdomain.Address{
				ID:        fmt.Sprintf("%s-ip-%02d", r.id, i+1),
				IP:        fmt.Sprintf("%s.%d", r.subnet, firstHostOctet+i),
				Status:    addressdomain.StatusAvailable,
				RoomID:    r.id,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Inventory().Create(ctx, a); err != nil {
				return fmt.Errorf("create address %s: %w", a.IP, err)
			}
		}
	}
	for _, c := range companies {
		company := &directorydomain.Company{ID: c.id, Name: c.name, Email: c.email, CreatedAt: now}
		if c.roomID != "" {
			roomID := c.roomID
			company.RoomID = &roomID
		}
		if err := repos.Tenants().CreateCompany(ctx, company); err != nil {
			return fmt.Errorf("create company %s: %w", c.id, err)
		}
	}
	return nil
}

// printTokens mints development bearer tokens when JWT_PRIVATE_KEY is configured.
func printTokens(cfg *config.Config) {
	if cfg.JWTPrivateKey == "" {
		log.Println("JWT_PRIVATE_KEY not set; no development tokens printed.")
		return
	}
	signer, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	tokens := security.NewTokenProvider(signer, signer.Public(), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())

	actors := []security.Actor{{UserID: devApproverID, Role: string(workflow.RoleApprover)}}
	for _, c := range companies {
		actors = append(actors, security.Actor{UserID: c.id + "-user", CompanyID: c.id, Role: string(workflow.RoleCompany)})
	}
	for _, a := range actors {
		tok, exp, err := tokens.Issue(a)
		if err != nil {
			log.Fatalf("issue token for %s: %v", a.UserID, err)
		}
		fmt.Fprintf(os.Stdout, "%s (role=%s company=%s, expires %s)\n  %s\n", a.UserID, a.Role, a.CompanyID, exp.Format(time.RFC3339), tok)
	}
}
