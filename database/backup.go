package database

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup snapshots the database with VACUUM INTO and zips the result
// next to the database file.
func (d *Database) Backup(ctx context.Context) error {
	dir := filepath.Join(filepath.Dir(d.path), "backups")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	dest := filepath.Join(dir, fmt.Sprintf("%s_pvplan.db", time.Now().Format("20060102_150405")))
	if _, err := d.write.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("vacuuming database into '%s': %w", dest, err)
	}

	if err := zipAndRemove(dest); err != nil {
		return err
	}

	d.logger.Info("database backup created", slog.String("file", dest+".zip"))
	return nil
}

// PurgeBackups deletes backup archives older than retentionDays.
func (d *Database) PurgeBackups(retentionDays int) error {
	dir := filepath.Join(filepath.Dir(d.path), "backups")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read backup directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			full := filepath.Join(dir, e.Name())
			if err := os.Remove(full); err != nil {
				d.logger.Warn("can't delete old backup", slog.String("file", full), slog.Any("error", err))
			} else {
				d.logger.Debug("deleted old backup", slog.String("file", full))
			}
		}
	}

	return nil
}

func zipAndRemove(dbFile string) error {
	zipFile, err := os.Create(dbFile + ".zip")
	if err != nil {
		return fmt.Errorf("create zip file: %w", err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	src, err := os.Open(dbFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer src.Close()

	w, err := zw.Create(filepath.Base(dbFile))
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("write zip entry: %w", err)
	}

	src.Close()
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}

	return os.Remove(dbFile)
}
