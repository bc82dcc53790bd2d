package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ipam-control-plane/internal/config"
	"ipam-control-plane/internal/db"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/platform/authz"
	"ipam-control-plane/internal/security"
	"ipam-control-plane/internal/server"
	"ipam-control-plane/internal/store"
	ipamotel "ipam-control-plane/internal/telemetry/otel"
	"ipam-control-plane/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	providers, err := ipamotel.NewProviders(ctx, ipamotel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	conn, err := openDB(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	publisher := notify.NewFanout(
		kafkaPublisher(cfg),
		ipamotel.NewLogPublisher(providers.LoggerProvider),
	)
	svc := workflow.NewService(store.NewSQL(conn, cfg.Dialect()), nil, workflow.WithPublisher(publisher))

	authorizer, err := newAuthorizer(ctx, cfg.AuthzPolicyFile)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}
	tokens, err := newTokenVerifier(cfg)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	s := server.NewGRPCServer(server.Options{
		Tokens:     tokens,
		Authorizer: authorizer,
		Logger:     providers.LoggerProvider.Logger("ipam.grpc"),
	})
	server.RegisterServices(s, server.Deps{
		Requests:            svc,
		History:             svc,
		HealthPinger:        conn,
		HealthPolicyChecker: authorizer,
	})

	go func() {
		log.Printf("gRPC server listening on %s (%s store)", cfg.GRPCAddr, cfg.Dialect())
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	s.GracefulStop()
	time.Sleep(notify.ShutdownDrainDuration)
	if err := publisher.Close(); err != nil {
		log.Printf("notify close: %v", err)
	}
	log.Println("gRPC server stopped")
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.Dialect() == db.SQLite {
		return db.OpenSQLite(cfg.SQLitePath)
	}
	return db.Open(cfg.DatabaseURL)
}

// kafkaPublisher returns nil when no brokers are configured so the fanout skips it.
func kafkaPublisher(cfg *config.Config) notify.Publisher {
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		return nil
	}
	log.Printf("notify: publishing request events to %s", cfg.NotifyKafkaTopic)
	return notify.NewKafkaPublisher(brokers, cfg.NotifyKafkaTopic)
}

func newAuthorizer(ctx context.Context, policyFile string) (*authz.OPAAuthorizer, error) {
	policy := authz.DefaultPolicy
	if policyFile != "" {
		b, err := os.ReadFile(policyFile)
		if err != nil {
			return nil, err
		}
		policy = string(b)
	}
	return authz.NewOPAAuthorizer(ctx, policy)
}

func newTokenVerifier(cfg *config.Config) (*security.TokenProvider, error) {
	if cfg.JWTPublicKey == "" {
		return nil, errors.New("JWT_PUBLIC_KEY is required")
	}
	pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		return nil, err
	}
	return security.NewTokenVerifier(pub, cfg.JWTIssuer, cfg.JWTAudience), nil
}
