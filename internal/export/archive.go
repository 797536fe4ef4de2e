package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/profile"
)

// Backup archive layout.
const (
	MetadataFile    = "BACKUP_METADATA.json"
	ProfilesDir     = "profiles/"
	ProgressLogsDir = "progress_logs/"
	BackupVersion   = "1.0"
)

// Metadata describes a backup archive.
type Metadata struct {
	BackupDate        time.Time `json:"backup_date"`
	TotalProfiles     int       `json:"total_profiles"`
	TotalProgressLogs int       `json:"total_progress_logs"`
	Version           string    `json:"version"`
}

// Bundle zips every profile as JSON, Markdown and HTML, one set of files per profile.
func Bundle(profiles []*profile.Profile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range profiles {
		stem := fileStem(p)
		for _, format := range []string{FormatJSON, FormatMarkdown, FormatHTML} {
			data, err := Render(p, format)
			if err != nil {
				return nil, err
			}
			_, ext, _ := ContentType(format)
			if err := writeEntry(zw, stem+ext, data); err != nil {
				return nil, err
			}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Backup writes a restorable archive: each profile under profiles/, its activity
// history under progress_logs/ and a metadata document at the root.
func Backup(w io.Writer, profiles []*profile.Profile, now time.Time) (*Metadata, error) {
	zw := zip.NewWriter(w)
	meta := &Metadata{BackupDate: now, TotalProfiles: len(profiles), Version: BackupVersion}

	for _, p := range profiles {
		stem := fileStem(p)
		data, err := JSON(p)
		if err != nil {
			return nil, err
		}
		if err := writeEntry(zw, ProfilesDir+stem+".json", data); err != nil {
			return nil, err
		}
		if len(p.ActivityHistory) == 0 {
			continue
		}
		logs, err := json.MarshalIndent(p.ActivityHistory, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := writeEntry(zw, ProgressLogsDir+stem+".json", logs); err != nil {
			return nil, err
		}
		meta.TotalProgressLogs++
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeEntry(zw, MetadataFile, data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return meta, nil
}

// ErrNotBackup is returned when an archive has no metadata document.
var ErrNotBackup = errors.New("archive is not a backup: missing " + MetadataFile)

// Recover reads a Backup archive. Every profile is schema-checked; the first
// invalid one aborts the recovery.
func Recover(r io.ReaderAt, size int64) (*Metadata, []*profile.Profile, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open backup: %w", err)
	}

	var (
		meta     *Metadata
		profiles []*profile.Profile
	)
	for _, f := range zr.File {
		switch {
		case f.Name == MetadataFile:
			data, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			meta = &Metadata{}
			if err := json.Unmarshal(data, meta); err != nil {
				return nil, nil, fmt.Errorf("invalid %s: %w", MetadataFile, err)
			}
		case strings.HasPrefix(f.Name, ProfilesDir) && path.Ext(f.Name) == ".json":
			data, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			p, err := decodeProfile(data)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			profiles = append(profiles, p)
		}
	}
	if meta == nil {
		return nil, nil, ErrNotBackup
	}
	return meta, profiles, nil
}

func fileStem(p *profile.Profile) string {
	if s := profile.Slug(p.Name); s != "" {
		return s
	}
	return "profile"
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
