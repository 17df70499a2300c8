// Package main provides the ToluStock engine daemon for desktop shells.
// The GUI communicates via REST on localhost; all inventory state lives in
// the engine and is persisted only on explicit save.
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tolaoye/tolustock/cmd/stockd/handlers"
	"github.com/tolaoye/tolustock/internal/backup"
	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/journal"
	"github.com/tolaoye/tolustock/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

func main() {
	logging.Init(os.Stdout, logging.LevelInfo)
	log := logging.Get()

	dataDir := os.Getenv("TOLUSTOCK_DATA")
	if dataDir == "" {
		dataDir = "./data"
	}

	repo := inventory.NewRepository()

	ledger, err := journal.Open(dataDir)
	if err != nil {
		log.Error("Failed to open movement ledger, continuing without it", err)
	} else {
		defer ledger.Close()
		repo.SetJournal(ledger)
	}

	// Automatic backups run only when a backup password is configured;
	// the engine never invents one.
	if password := os.Getenv("TOLUSTOCK_BACKUP_PASSWORD"); password != "" {
		retention := 10
		if v := os.Getenv("TOLUSTOCK_BACKUP_RETENTION"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retention = n
			}
		}
		interval := backup.Interval(os.Getenv("TOLUSTOCK_BACKUP_INTERVAL"))
		if interval == "" {
			interval = backup.IntervalDaily
		}
		scheduler := backup.NewScheduler(repo, &backup.Config{
			Interval:       interval,
			RetentionCount: retention,
			BackupDir:      filepath.Join(dataDir, "backups"),
			Password:       password,
		})
		if err := scheduler.Start(context.Background()); err != nil {
			log.Error("Failed to start backup scheduler", err)
		} else {
			defer scheduler.Stop()
		}
	}

	items := handlers.NewItemHandler(repo)
	categories := handlers.NewCategoryHandler(repo)
	reports := handlers.NewReportHandler(repo)
	exchange := handlers.NewExchangeHandler(repo)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			items.List(w, r)
		case http.MethodPost:
			items.Create(w, r)
		case http.MethodPatch:
			items.Update(w, r)
		case http.MethodDelete:
			items.Delete(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/items/get", items.Get)
	mux.HandleFunc("/api/items/adjust", items.Adjust)
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categories.List(w, r)
		case http.MethodPost:
			categories.Create(w, r)
		case http.MethodPatch:
			categories.Update(w, r)
		case http.MethodDelete:
			categories.Delete(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/alerts", reports.Alerts)
	mux.HandleFunc("/api/report", reports.Report)
	mux.HandleFunc("/api/export", exchange.Export)
	mux.HandleFunc("/api/import", exchange.Import)
	mux.HandleFunc("/api/save", exchange.Save)
	mux.HandleFunc("/api/open", exchange.Open)
	if ledger != nil {
		mux.HandleFunc("/api/movements", handlers.NewMovementHandler(ledger).List)
	}
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"tolustock","version":"` + Version + `"}`))
	})

	port := os.Getenv("TOLUSTOCK_PORT")
	if port == "" {
		port = "8091"
	}
	log.Info("ToluStock engine starting", map[string]interface{}{
		"version": Version,
		"port":    port,
	})
	if err := http.ListenAndServe("127.0.0.1:"+port, mux); err != nil {
		log.Error("Server stopped", err)
		os.Exit(1)
	}
}
