package installer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Expect steps of the scripted install session, in order.
const (
	stepLicense    = "license prompt"
	stepInstallDir = "install directory prompt"
	stepSymlink    = "symlink prompt"
	stepFinish     = "installer exit"
)

// session drives an interactive child process over a pseudo-terminal with
// a fixed expect/respond script. Each expect step is bounded by a timeout
// so an unexpected prompt fails instead of hanging.
type session struct {
	cmd     *exec.Cmd
	pt      *os.File
	timeout time.Duration
}

func startSession(timeout time.Duration, name string, args ...string) (*session, error) {
	cmd := exec.Command(name, args...)
	pt, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn %s: %w", name, err)
	}
	// Without this the terminal echoes every answer back, and the echo
	// would satisfy the next expect step in place of a real prompt.
	if err := disableEcho(pt); err != nil {
		_ = pt.Close()
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
		return nil, fmt.Errorf("failed to configure terminal: %w", err)
	}
	return &session{cmd: cmd, pt: pt, timeout: timeout}, nil
}

func disableEcho(pt *os.File) error {
	termios, err := unix.IoctlGetTermios(int(pt.Fd()), unix.TCGETS)
	if err != nil {
		return err
	}
	termios.Lflag &^= unix.ECHO
	return unix.IoctlSetTermios(int(pt.Fd()), unix.TCSETS, termios)
}

// expectLine blocks until the child emits a full line or the step timeout
// elapses.
func (s *session) expectLine(step string) error {
	if err := s.pt.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return &ScriptError{Step: step, Cause: err}
	}

	buf := make([]byte, 256)
	var seen []byte
	for {
		n, err := s.pt.Read(buf)
		seen = append(seen, buf[:n]...)
		if bytes.ContainsRune(seen, '\n') {
			return nil
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				err = fmt.Errorf("timed out after %s waiting for prompt", s.timeout)
			}
			return &ScriptError{Step: step, Cause: err}
		}
	}
}

func (s *session) sendLine(step, text string) error {
	if _, err := s.pt.Write([]byte(text + "\n")); err != nil {
		return &ScriptError{Step: step, Cause: err}
	}
	return nil
}

// drain consumes output until the child closes its side of the terminal.
// On Linux the read fails with EIO once the child exits; any non-deadline
// error here counts as end of output.
func (s *session) drain() error {
	if err := s.pt.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return &ScriptError{Step: stepFinish, Cause: err}
	}

	buf := make([]byte, 1024)
	for {
		_, err := s.pt.Read(buf)
		if err == nil {
			continue
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return &ScriptError{Step: stepFinish, Cause: fmt.Errorf("timed out after %s waiting for exit", s.timeout)}
		}
		return nil
	}
}

func (s *session) close() {
	_ = s.pt.Close()
	if s.cmd.ProcessState == nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_, _ = s.cmd.Process.Wait()
	}
}

// runInstallScript executes the downloaded installer non-interactively:
// accept the license, point it at targetDir, decline symlink creation,
// then wait for it to finish. Any deviation from that prompt sequence
// yields a ScriptError.
func runInstallScript(script, targetDir string, stepTimeout time.Duration) error {
	s, err := startSession(stepTimeout, "sh", script)
	if err != nil {
		return &ScriptError{Step: stepLicense, Cause: err}
	}
	defer s.close()

	if err := s.expectLine(stepLicense); err != nil {
		return err
	}
	if err := s.sendLine(stepLicense, "y"); err != nil {
		return err
	}

	if err := s.expectLine(stepInstallDir); err != nil {
		return err
	}
	if err := s.sendLine(stepInstallDir, targetDir); err != nil {
		return err
	}

	if err := s.expectLine(stepSymlink); err != nil {
		return err
	}
	if err := s.sendLine(stepSymlink, "n"); err != nil {
		return err
	}

	if err := s.drain(); err != nil {
		return err
	}

	if err := s.cmd.Wait(); err != nil {
		return &ScriptError{Step: stepFinish, Cause: err}
	}
	return nil
}
