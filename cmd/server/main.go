// Command server is the entry point for the Pressbox API and its moderation
// workers.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pressbox/internal/config"
	"pressbox/internal/middleware"
	"pressbox/internal/moderation"
	"pressbox/internal/queue"
	"pressbox/internal/server"

	"github.com/nats-io/nats.go"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	// The moderation policy is shared by the submit path, the workers, and
	// the config watcher, which hot-reloads keyword and TTL changes.
	policy := moderation.NewPolicy(cfg.BannedKeywords, cfg.CacheTTL())
	config.Watch(func(fresh *config.Config) {
		policy.Update(fresh.BannedKeywords, fresh.CacheTTL())
		log.Println("moderation policy reloaded")
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var (
		q     queue.Queue
		natsQ *queue.NATS
		memQ  *queue.Memory
		nc    *nats.Conn
	)
	if cfg.NATSURL != "" {
		var err error
		nc, err = queue.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		natsQ, err = queue.NewNATS(nc)
		if err != nil {
			log.Fatalf("Failed to set up moderation stream: %v", err)
		}
		q = natsQ
	} else {
		log.Println("NATS_URL not set, using in-process moderation queue")
		memQ = queue.NewMemory(256)
		q = memQ
	}

	srv, err := server.NewServer(cfg, q, policy)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Start the moderation workers.
	handler := srv.ModerationHandler()
	if natsQ != nil {
		for i := 0; i < cfg.WorkerConcurrency; i++ {
			go func() {
				if err := natsQ.Consume(workerCtx, handler); err != nil {
					log.Printf("moderation consumer stopped: %v", err)
				}
			}()
		}
	} else {
		memQ.Start(workerCtx, cfg.WorkerConcurrency, handler)
	}

	app := srv.NewApp()

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		// Stop intake, let in-flight moderation finish.
		stopWorkers()
		if memQ != nil {
			memQ.Wait()
		}
		if nc != nil {
			if err := nc.Drain(); err != nil {
				log.Printf("NATS drain error: %v", err)
			}
		}

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}

	// Listen returns once ShutdownWithContext runs; wait for the drain to
	// finish before exiting.
	<-shutdownDone
}
