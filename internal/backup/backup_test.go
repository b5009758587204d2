package backup_test

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/telephono/persistent-loadout/internal/backup"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func archiveContents(t *testing.T, path string) map[string]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	tr := tar.NewReader(gz)
	out := make(map[string]string)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar: %v", err)
		}
		data, _ := io.ReadAll(tr)
		out[hdr.Name] = string(data)
	}
	return out
}

// TestCreate_ArchivesModelDir verifies that Create archives every loadout file.
func TestCreate_ArchivesModelDir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "persistent-loadout.json"), `{"red":{"fuel":[1]}}`)
	writeFile(t, filepath.Join(src, "twa", "persistent-loadout.json"), `{"fuel":[2]}`)
	writeFile(t, filepath.Join(src, "persistent-loadout.json.tmp"), `partial`)

	svc := backup.New(src, t.TempDir(), "720")
	file, err := svc.Create(time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if filepath.Base(file) != "720-20260301-123000.tar.gz" {
		t.Errorf("archive name = %q", filepath.Base(file))
	}

	got := archiveContents(t, file)
	if got["persistent-loadout.json"] != `{"red":{"fuel":[1]}}` {
		t.Errorf("shared file missing or wrong: %v", got)
	}
	if got["twa/persistent-loadout.json"] != `{"fuel":[2]}` {
		t.Errorf("per-livery file missing or wrong: %v", got)
	}
	if _, ok := got["persistent-loadout.json.tmp"]; ok {
		t.Error("temp file was archived")
	}
}

func TestCreate_MissingSource(t *testing.T) {
	svc := backup.New(filepath.Join(t.TempDir(), "nope"), t.TempDir(), "720")
	if _, err := svc.Create(time.Now()); err == nil {
		t.Error("Create should fail for a missing model directory")
	}
}

// TestPrune_DeletesOld verifies that Prune removes archives older than maxAge.
func TestPrune_DeletesOld(t *testing.T) {
	dir := t.TempDir()
	newFile := filepath.Join(dir, "720-20990101-000000.tar.gz")
	oldFile := filepath.Join(dir, "720-20000101-000000.tar.gz")
	otherModel := filepath.Join(dir, "720B-20000101-000000.tar.gz")
	for _, f := range []string{newFile, oldFile, otherModel} {
		writeFile(t, f, "x")
	}
	pastTime := time.Now().Add(-100 * 24 * time.Hour)
	for _, f := range []string{oldFile, otherModel} {
		if err := os.Chtimes(f, pastTime, pastTime); err != nil {
			t.Fatal(err)
		}
	}

	if n := backup.New(t.TempDir(), dir, "720").Prune(backup.DefaultMaxAge); n != 1 {
		t.Errorf("pruned %d archives, want 1", n)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("old backup %q still exists after pruning", oldFile)
	}
	for _, f := range []string{newFile, otherModel} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("%q was incorrectly pruned: %v", f, err)
		}
	}
}

// TestList verifies that List returns only this model's archives.
func TestList(t *testing.T) {
	dir := t.TempDir()
	svc := backup.New(t.TempDir(), dir, "720")

	files, err := svc.List()
	if err != nil || len(files) != 0 {
		t.Fatalf("List on empty dir = %v, %v", files, err)
	}

	for _, n := range []string{
		"720-20260102-000000.tar.gz",
		"720-20260101-000000.tar.gz",
		"720B-20260101-000000.tar.gz",
		"720-notes.txt",
	} {
		writeFile(t, filepath.Join(dir, n), "")
	}

	files, err = svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	want := []string{"720-20260101-000000.tar.gz", "720-20260102-000000.tar.gz"}
	if !slices.Equal(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
	if !strings.HasPrefix(files[0], dir) {
		t.Errorf("List should return full paths, got %q", files[0])
	}
}

func TestList_MissingDir(t *testing.T) {
	svc := backup.New(t.TempDir(), filepath.Join(t.TempDir(), "none"), "720")
	files, err := svc.List()
	if err != nil || files != nil {
		t.Errorf("List = %v, %v; want nil, nil", files, err)
	}
}
