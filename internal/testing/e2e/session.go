package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// SessionConfig describes a program to run under a pseudo terminal.
type SessionConfig struct {
	Command string
	Args    []string
	WorkDir string
	Env     []string

	// Terminal size, 24x80 by default
	Rows uint16
	Cols uint16

	// Timeout bounds the whole session, 10s by default
	Timeout time.Duration
}

// Session runs an interactive command in a PTY and records what it draws.
type Session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	screen *Screen
	cancel context.CancelFunc

	mu     sync.Mutex
	raw    strings.Builder
	done   chan struct{}
	waitMu sync.Mutex
	err    error
	waited bool
}

// StartSession launches cfg.Command attached to a new PTY.
func StartSession(cfg *SessionConfig) (*Session, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Rows == 0 {
		cfg.Rows = 24
	}
	if cfg.Cols == 0 {
		cfg.Cols = 80
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.WorkDir
	cmd.Env = append(os.Environ(), cfg.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: cfg.Rows, Cols: cfg.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &Session{
		cmd:    cmd,
		ptmx:   ptmx,
		screen: NewScreen(int(cfg.Rows), int(cfg.Cols)),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.capture()
	return s, nil
}

func (s *Session) capture() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.raw.Write(buf[:n])
			s.mu.Unlock()
			_, _ = s.screen.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes keys to the program's terminal.
func (s *Session) SendKeys(keys string) error {
	_, err := s.ptmx.Write([]byte(keys))
	return err
}

// Output returns everything the program wrote, escape codes included.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw.String()
}

// Screen returns the current contents of the virtual terminal.
func (s *Session) Screen() string {
	return s.screen.Render()
}

// WaitForText polls the screen until text appears.
func (s *Session) WaitForText(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.screen.ContainsText(text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %q; screen:\n%s", text, s.Screen())
}

// Wait blocks until the program exits or timeout passes.
func (s *Session) Wait(timeout time.Duration) error {
	exited := make(chan error, 1)
	go func() { exited <- s.wait() }()
	select {
	case err := <-exited:
		return err
	case <-time.After(timeout):
		return errors.New("program did not exit")
	}
}

func (s *Session) wait() error {
	s.waitMu.Lock()
	defer s.waitMu.Unlock()
	if !s.waited {
		s.err = s.cmd.Wait()
		s.waited = true
	}
	return s.err
}

// Close kills the program if it is still running and releases the PTY.
func (s *Session) Close() {
	s.cancel()
	_ = s.wait()
	_ = s.ptmx.Close()
	<-s.done
}
