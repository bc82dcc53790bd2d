// Worker releases expired leases on EXPIRY_SWEEP_INTERVAL and, when KAFKA_BROKERS and LOKI_URL are
// set, consumes request events from NOTIFY_KAFKA_TOPIC and pushes them to Loki.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"ipam-control-plane/internal/config"
	"ipam-control-plane/internal/db"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/store"
	"ipam-control-plane/internal/telemetry/loki"
	ipamotel "ipam-control-plane/internal/telemetry/otel"
	"ipam-control-plane/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	providers, err := ipamotel.NewProviders(ctx, ipamotel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName + "-worker",
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	var wg sync.WaitGroup
	if interval := cfg.SweepInterval(); interval > 0 {
		conn, err := openDB(cfg)
		if err != nil {
			log.Fatalf("worker: db: %v", err)
		}
		defer conn.Close()
		var kafkaPub notify.Publisher
		if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
			kafkaPub = notify.NewKafkaPublisher(brokers, cfg.NotifyKafkaTopic)
		}
		publisher := notify.NewFanout(kafkaPub, ipamotel.NewLogPublisher(providers.LoggerProvider))
		defer publisher.Close()
		svc := workflow.NewService(store.NewSQL(conn, cfg.Dialect()), nil, workflow.WithPublisher(publisher))
		wg.Add(1)
		go func() {
			defer wg.Done()
			runSweeper(ctx, svc, interval)
		}()
	} else {
		log.Println("worker: expiry sweep disabled")
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) > 0 && cfg.LokiURL != "" {
		lokiClient, err := loki.NewClient(cfg.LokiURL, nil)
		if err != nil {
			log.Fatalf("worker: loki: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			runConsumer(ctx, cfg, brokers, lokiClient)
		}()
	} else {
		log.Println("worker: KAFKA_BROKERS or LOKI_URL not set; event forwarding disabled")
	}

	wg.Wait()
	// Let async publishes from the last sweep finish before the deferred Close.
	time.Sleep(notify.ShutdownDrainDuration)
	log.Println("worker: stopped")
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.Dialect() == db.SQLite {
		return db.OpenSQLite(cfg.SQLitePath)
	}
	return db.Open(cfg.DatabaseURL)
}

func runSweeper(ctx context.Context, svc *workflow.Service, interval time.Duration) {
	log.Printf("worker: sweeping expired leases every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := svc.ExpireDue(ctx, time.Now())
		if err != nil && ctx.Err() == nil {
			log.Printf("worker: expiry sweep: %v", err)
		}
		if n > 0 {
			log.Printf("worker: released %d expired addresses", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runConsumer(ctx context.Context, cfg *config.Config, brokers []string, lokiClient *loki.Client) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.NotifyKafkaTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	log.Printf("worker: consuming from %s (group %s), pushing to %s", cfg.NotifyKafkaTopic, cfg.KafkaGroupID, cfg.LokiURL)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		pushCtx, pushCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := lokiClient.PushEventJSON(pushCtx, msg.Value); err != nil {
			log.Printf("worker: loki push failed: %v", err)
		}
		pushCancel()
	}
}
