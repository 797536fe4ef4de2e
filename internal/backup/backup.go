// Package backup writes profile backup archives to a local directory or an
// S3-compatible bucket and restores profiles from them.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/career-assistant/internal/export"
	"github.com/jonathan/career-assistant/internal/profile"
)

// ArchivePrefix starts every archive key.
const ArchivePrefix = "career_backup_"

// Key names the archive taken at now.
func Key(now time.Time) string {
	return ArchivePrefix + now.UTC().Format("20060102_150405") + ".zip"
}

// Result describes a finished backup.
type Result struct {
	Key      string           `json:"key"`
	Location string           `json:"location"`
	Size     int              `json:"size"`
	Metadata *export.Metadata `json:"metadata"`
}

// Run archives every profile in store and writes the archive to target.
func Run(ctx context.Context, store profile.Store, target Target, now time.Time, log logrus.FieldLogger) (*Result, error) {
	profiles, err := profile.LoadAll(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	var buf bytes.Buffer
	meta, err := export.Backup(&buf, profiles, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build archive: %w", err)
	}

	key := Key(now)
	if err := target.Put(ctx, key, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to store archive: %w", err)
	}

	res := &Result{Key: key, Location: target.Location(key), Size: buf.Len(), Metadata: meta}
	log.WithFields(logrus.Fields{
		"location": res.Location,
		"profiles": meta.TotalProfiles,
		"bytes":    res.Size,
	}).Info("backup written")
	return res, nil
}

// Latest returns the newest archive key in target.
func Latest(ctx context.Context, target Target) (string, error) {
	keys, err := target.List(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", ErrNotFound
	}
	return keys[len(keys)-1], nil
}

// RestoreResult counts what Restore did.
type RestoreResult struct {
	Metadata *export.Metadata `json:"metadata"`
	Restored []string         `json:"restored"`
	Skipped  []string         `json:"skipped"`
}

// Restore reads the archive at key and saves its profiles into store. Profiles that
// already exist are skipped unless overwrite is set.
func Restore(ctx context.Context, store profile.Store, target Target, key string, overwrite bool) (*RestoreResult, error) {
	data, err := target.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	meta, profiles, err := export.Recover(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	res := &RestoreResult{Metadata: meta}
	res.Restored, res.Skipped, err = profile.SaveAll(ctx, store, profiles, overwrite)
	return res, err
}
