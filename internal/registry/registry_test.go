package registry

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "installs.db"))
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndGetInstall(t *testing.T) {
	db := openTestDB(t)

	install := &Install{
		Version:   "9.4.0",
		Revision:  "998c4b761e",
		Platform:  "Linux-Ubuntu18.04-x86_64",
		SourceURL: "https://example.org/EnergyPlus-9.4.0-998c4b761e-Linux-Ubuntu18.04-x86_64.sh",
		RootPath:  "/data/EnergyPlus-9-4-0",
	}
	if err := db.RecordInstall(install); err != nil {
		t.Fatalf("RecordInstall() returned error: %v", err)
	}

	got, err := db.GetInstall("9.4.0")
	if err != nil {
		t.Fatalf("GetInstall() returned error: %v", err)
	}
	if got.RootPath != install.RootPath || got.Revision != install.Revision {
		t.Errorf("GetInstall() = %+v, want %+v", got, install)
	}
	if got.InstalledAt.IsZero() {
		t.Error("InstalledAt not defaulted")
	}
}

func TestRecordInstallUpsert(t *testing.T) {
	db := openTestDB(t)

	first := &Install{
		Version:     "9.4.0",
		SourceURL:   "https://example.org/a.sh",
		RootPath:    "/old/EnergyPlus-9-4-0",
		InstalledAt: time.Now().Add(-time.Hour),
	}
	if err := db.RecordInstall(first); err != nil {
		t.Fatal(err)
	}

	second := &Install{
		Version:   "9.4.0",
		SourceURL: "https://example.org/a.sh",
		RootPath:  "/new/EnergyPlus-9-4-0",
	}
	if err := db.RecordInstall(second); err != nil {
		t.Fatalf("RecordInstall() upsert returned error: %v", err)
	}

	installs, err := db.ListInstalls()
	if err != nil {
		t.Fatal(err)
	}
	if len(installs) != 1 {
		t.Fatalf("ListInstalls() returned %d rows, want 1", len(installs))
	}
	if installs[0].RootPath != "/new/EnergyPlus-9-4-0" {
		t.Errorf("RootPath = %q, want the refreshed path", installs[0].RootPath)
	}
}

func TestGetInstallNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetInstall("1.0.0"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetInstall() error = %v, want ErrNotFound", err)
	}
}

func TestListInstallsOrder(t *testing.T) {
	db := openTestDB(t)

	old := &Install{Version: "9.4.0", SourceURL: "u", RootPath: "p", InstalledAt: time.Now().Add(-time.Hour)}
	recent := &Install{Version: "23.2.0", SourceURL: "u", RootPath: "p", InstalledAt: time.Now()}
	if err := db.RecordInstall(old); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordInstall(recent); err != nil {
		t.Fatal(err)
	}

	installs, err := db.ListInstalls()
	if err != nil {
		t.Fatal(err)
	}
	if len(installs) != 2 || installs[0].Version != "23.2.0" {
		t.Errorf("ListInstalls() order = %v, want newest first", installs)
	}
}

func TestRecordInstallNil(t *testing.T) {
	db := openTestDB(t)
	if err := db.RecordInstall(nil); !errors.Is(err, ErrNilInstall) {
		t.Fatalf("RecordInstall(nil) error = %v, want ErrNilInstall", err)
	}
}
