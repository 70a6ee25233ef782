package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/aquascore/internal/config"
	"github.com/example/aquascore/internal/corpus"
	"github.com/example/aquascore/internal/database"
	"github.com/example/aquascore/internal/export"
	"github.com/example/aquascore/internal/notify"
	"github.com/example/aquascore/internal/scheduler"
	"github.com/example/aquascore/internal/server"
	"github.com/example/aquascore/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := database.NewAnnotationRepository(db, cfg.DBTimeout)
	if err := repo.EnsureSchema(); err != nil {
		// Another process may create the schema, or the store may come
		// back later; individual operations fail open in the meantime.
		log.Printf("Schema init failed, continuing: %v", err)
	}

	var provider corpus.Provider
	if cfg.CorpusMode == config.CorpusModeDir {
		provider = corpus.NewDirectorySource(cfg.CorpusDir)
	} else {
		provider = corpus.NewManifestSource(cfg.CorpusManifest)
	}

	notifier, err := notify.NewTelegram(cfg.TelegramToken, cfg.AdminChatID)
	if err != nil {
		log.Printf("Telegram notifications disabled: %v", err)
	}

	manager := session.NewManager(repo, provider, cfg.GroupCount)
	manager.OnComplete = func(participantID, group string, total int) {
		log.Printf("Participant %s completed %s (%d images)", participantID, group, total)
		notifier.SessionCompleted(participantID, group, total)
	}

	sched := scheduler.New(export.New(repo), cfg.ExportDir)
	sched.Start(cfg.ExportIntervalHours)
	defer sched.Stop()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(manager, repo, cfg).Router(),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s (db=%s, corpus=%s)", cfg.HTTPAddr, cfg.DBType, cfg.CorpusMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}
