package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAppCommands(t *testing.T) {
	app := NewApp()

	want := []string{"install", "report", "series", "versions", "installed"}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSeriesCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "eplus-meter.csv"), []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out

	args := []string{"epwrap", "--config", filepath.Join(dir, "no-such.yaml"), "series", "--dir", dir}
	if err := app.Run(args); err != nil {
		t.Fatalf("series command returned error: %v", err)
	}

	if !strings.Contains(out.String(), "meter: 1 rows, 2 columns") {
		t.Errorf("series output = %q", out.String())
	}
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	doc := `<html><body>
<b>Building Area</b><br><br>
<table><tr><td></td><td>Area [m2]</td></tr><tr><td>Total</td><td>927.20</td></tr></table>
</body></html>`
	file := filepath.Join(dir, "eplustbl.htm")
	if err := os.WriteFile(file, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out

	args := []string{"epwrap", "--config", filepath.Join(dir, "no-such.yaml"), "report", "--file", file}
	if err := app.Run(args); err != nil {
		t.Fatalf("report command returned error: %v", err)
	}

	if !strings.Contains(out.String(), "Building Area (1 tables)") {
		t.Errorf("report output = %q", out.String())
	}
}

func TestInstallCommandRequiresURLOrVersion(t *testing.T) {
	app := NewApp()
	app.Writer = &bytes.Buffer{}

	args := []string{"epwrap", "--config", filepath.Join(t.TempDir(), "no-such.yaml"), "install"}
	if err := app.Run(args); err == nil {
		t.Fatal("install without --url or --version returned nil error")
	}
}
