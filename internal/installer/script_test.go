package installer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeInstaller mimics the prompt sequence of the real EnergyPlus
// self-extracting installer and records the answers it received.
const fakeInstaller = `#!/bin/sh
out="$(dirname "$0")/answers.txt"
echo "EnergyPlus installer"
echo "Do you accept the license? [yN]:"
read accept
echo "EnergyPlus install directory [/usr/local]:"
read dir
echo "Symbolic link location (enter n for no links) [/usr/local/bin]:"
read symlink
printf '%s\n%s\n%s\n' "$accept" "$dir" "$symlink" > "$out"
echo "Done"
`

func TestRunInstallScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "installer.sh")
	if err := os.WriteFile(script, []byte(fakeInstaller), 0755); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(dir, "target")
	if err := runInstallScript(script, target, 10*time.Second); err != nil {
		t.Fatalf("runInstallScript() returned error: %v", err)
	}

	answers, err := os.ReadFile(filepath.Join(dir, "answers.txt"))
	if err != nil {
		t.Fatalf("installer did not record answers: %v", err)
	}
	want := "y\n" + target + "\nn\n"
	if string(answers) != want {
		t.Errorf("installer answers = %q, want %q", answers, want)
	}
}

func TestRunInstallScriptSilentAfterLicense(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "installer.sh")
	// Prompts for the license, then goes silent. The echo of the "y"
	// answer must not pass for the install directory prompt; the
	// session has to fail at that step.
	silent := `#!/bin/sh
echo "Do you accept the license? [yN]:"
read accept
sleep 30
`
	if err := os.WriteFile(script, []byte(silent), 0755); err != nil {
		t.Fatal(err)
	}

	err := runInstallScript(script, dir, 500*time.Millisecond)
	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) {
		t.Fatalf("runInstallScript() error = %v, want *ScriptError", err)
	}
	if scriptErr.Step != stepInstallDir {
		t.Errorf("ScriptError step = %q, want %q", scriptErr.Step, stepInstallDir)
	}
}

func TestRunInstallScriptTimeout(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "installer.sh")
	// Produces no prompt at all; the first expect step must time out
	// instead of hanging.
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0755); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	err := runInstallScript(script, dir, 500*time.Millisecond)
	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) {
		t.Fatalf("runInstallScript() error = %v, want *ScriptError", err)
	}
	if !strings.Contains(scriptErr.Error(), stepLicense) {
		t.Errorf("ScriptError step = %q, want %q", scriptErr.Step, stepLicense)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("runInstallScript() took %s, timeout did not bound the step", elapsed)
	}
}
