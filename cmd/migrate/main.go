package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arkiv-showcase/showcase-backend/config"
	"github.com/arkiv-showcase/showcase-backend/internal/ledger"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
)

// Pushes every local published record into the remote ledger store. Records
// already present on the ledger are skipped unless -force is set.
func main() {
	force := flag.Bool("force", false, "overwrite projects that already exist on the ledger")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.Ledger.RPCURL == "" {
		logrus.Fatal("LEDGER_RPC_URL is required for migration")
	}

	client := ledger.NewClient(cfg.Ledger.RPCURL, cfg.Ledger.OwnerAddress, cfg.Ledger.PrivateKey)
	if !client.CanWrite() {
		logrus.Fatal("LEDGER_PRIVATE_KEY is required for migration")
	}

	publishedDir := filepath.Join(cfg.Content.ContentDir, "projects")
	entries, err := os.ReadDir(publishedDir)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read published dir")
	}

	ctx := context.Background()
	migrated, skipped, failed := 0, 0, 0

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(publishedDir, e.Name()))
		if err != nil {
			logrus.WithError(err).WithField("file", e.Name()).Error("read failed")
			failed++
			continue
		}

		var p domain.Project
		if err := json.Unmarshal(raw, &p); err != nil {
			logrus.WithError(err).WithField("file", e.Name()).Error("parse failed")
			failed++
			continue
		}

		slug := p.Slug
		if slug == "" {
			slug = strings.TrimSuffix(e.Name(), ".json")
		}

		if !*force {
			if _, err := client.GetProject(ctx, slug); err == nil {
				logrus.WithField("slug", slug).Info("already on ledger, skipping")
				skipped++
				continue
			} else if !errors.Is(err, ledger.ErrNotFound) {
				logrus.WithError(err).WithField("slug", slug).Error("ledger lookup failed")
				failed++
				continue
			}
		}

		handle, err := client.StoreProject(ctx, slug, raw)
		if err != nil {
			logrus.WithError(err).WithField("slug", slug).Error("store failed")
			failed++
			continue
		}

		logrus.WithFields(logrus.Fields{"slug": slug, "entity_key": handle}).Info("migrated")
		migrated++
	}

	logrus.WithFields(logrus.Fields{
		"migrated": migrated,
		"skipped":  skipped,
		"failed":   failed,
	}).Info("migration complete")

	if failed > 0 {
		os.Exit(1)
	}
}
