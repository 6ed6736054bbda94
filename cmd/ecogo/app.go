package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ecogo/internal/clock"
	"ecogo/internal/logger"
	"ecogo/internal/publisher"
	"ecogo/internal/repository"
	"ecogo/internal/repository/db"
	"ecogo/internal/service"
)

// app holds the long-lived resources shared by the commands.
type app struct {
	db        *sql.DB
	firestore *repository.UserDataFirestore
	mqtt      *publisher.MQTT
	repos     *repository.Repository
	sessions  *service.Sessions
	log       *logger.Logger
}

// openApp opens the stores and the optional publisher, then builds the
// session registry on top of them.
func openApp(ctx context.Context, cfg appConfig, log *logger.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	a.db, err = db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	switch cfg.Store.Backend {
	case backendFire:
		a.firestore, err = repository.NewUserDataFirestore(ctx, cfg.Store.Firestore, log.Named("firestore"))
		if err != nil {
			return nil, err
		}
		a.repos = repository.NewRepositoryWithStore(a.db, a.firestore)
	default:
		a.repos = repository.NewRepository(a.db)
	}
	log.Infow("store_opened", "backend", cfg.Store.Backend, "db_path", cfg.DB.Path)

	var pub service.Publisher
	if cfg.MQTT.Enabled {
		a.mqtt, err = publisher.New(cfg.MQTT, log.Named("mqtt"))
		if err != nil {
			return nil, err
		}
		pub = a.mqtt
		log.Infow("mqtt_connected", "broker", cfg.MQTT.Broker)
	}

	a.sessions = service.NewSessions(a.repos.UserData, a.repos.EventRepo, pub, clock.System, log, cfg.Lifecycle)
	return a, nil
}

// close stops every manager before the stores they write to.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.sessions != nil {
		if err := a.sessions.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close sessions: %w", err))
		}
	}
	if a.mqtt != nil {
		a.mqtt.Close()
	}
	if a.firestore != nil {
		if err := a.firestore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close firestore: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sqlite: %w", err))
		}
	}
	return errors.Join(errs...)
}
