// Package backup archives an aircraft model's loadout directory into
// timestamped tar.gz files and prunes old archives.
package backup

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// DefaultMaxAge is how long archives are kept by Prune.
const DefaultMaxAge = 90 * 24 * time.Hour

const suffix = ".tar.gz"

// Service creates and prunes archives of one model directory.
type Service struct {
	srcDir    string
	backupDir string
	prefix    string
}

// New creates a backup service archiving srcDir into backupDir. Archives
// are named <prefix>-<timestamp>.tar.gz.
func New(srcDir, backupDir, prefix string) *Service {
	return &Service{srcDir: srcDir, backupDir: backupDir, prefix: prefix}
}

// Dir returns the directory archives are written to.
func (s *Service) Dir() string { return s.backupDir }

// Create writes an archive of the model directory stamped with now and
// returns its path.
func (s *Service) Create(now time.Time) (string, error) {
	if _, err := os.Stat(s.srcDir); err != nil {
		return "", fmt.Errorf("backup: source: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return "", fmt.Errorf("backup: create backup dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", s.prefix, now.UTC().Format("20060102-150405"), suffix)
	dest := filepath.Join(s.backupDir, name)
	tmp := dest + ".tmp"

	if err := s.writeArchive(tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("backup: rename: %w", err)
	}
	slog.Info("backup: archive created", "file", dest)
	return dest, nil
}

func (s *Service) writeArchive(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("backup: create archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(s.srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// skip temp files from interrupted saves
		if !d.Type().IsRegular() || strings.HasSuffix(p, ".tmp") {
			return nil
		}
		return addFile(tw, s.srcDir, p)
	})
	if err != nil {
		return fmt.Errorf("backup: archive %s: %w", s.srcDir, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("backup: finish tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("backup: finish gzip: %w", err)
	}
	return f.Sync()
}

func addFile(tw *tar.Writer, root, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// List returns the archives of this model, oldest first.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if s.owns(e) {
			files = append(files, filepath.Join(s.backupDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Prune deletes archives of this model older than maxAge and returns how
// many were removed.
func (s *Service) Prune(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !s.owns(e) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.backupDir, e.Name())
			if err := os.Remove(path); err != nil {
				slog.Warn("backup: failed to prune old archive", "file", path, "err", err)
				continue
			}
			slog.Info("backup: pruned old archive", "file", path)
			removed++
		}
	}
	return removed
}

func (s *Service) owns(e fs.DirEntry) bool {
	return !e.IsDir() && strings.HasPrefix(e.Name(), s.prefix+"-") && strings.HasSuffix(e.Name(), suffix)
}
