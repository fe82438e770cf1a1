package sshhost

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/crypto/ssh"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func expectOutput(t *testing.T, out *lockedBuffer, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(ansi.Strip(out.String()), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q: %q", want, ansi.Strip(out.String()))
}

func startServer(t *testing.T, testMode bool) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := &Server{
		Addr:        ln.Addr().String(),
		Listener:    ln,
		HostKeyPath: filepath.Join(t.TempDir(), "host_key"),
		TestMode:    testMode,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.ListenAndServe(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) *ssh.Client {
	t.Helper()
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            "demo",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func waitSession(t *testing.T, session *ssh.Session) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- session.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not finish")
		return nil
	}
}

func TestSSHSessionEchoesAndExits(t *testing.T) {
	client := dial(t, startServer(t, false))
	session, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	if err := session.RequestPty("xterm-256color", 40, 80, ssh.TerminalModes{}); err != nil {
		t.Fatal(err)
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Shell(); err != nil {
		t.Fatal(err)
	}
	output := &lockedBuffer{}
	go func() { _, _ = io.Copy(output, stdout) }()

	expectOutput(t, output, "Rainbow Echo", 5*time.Second)
	if _, err := io.WriteString(stdin, "hello\r"); err != nil {
		t.Fatal(err)
	}
	expectOutput(t, output, "1. hello", 5*time.Second)

	if err := session.WindowChange(30, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := stdin.Write([]byte{0x03}); err != nil {
		t.Fatal(err)
	}
	if err := waitSession(t, session); err != nil {
		t.Fatalf("session exit: %v", err)
	}
}

func TestSSHSessionRequiresPty(t *testing.T) {
	client := dial(t, startServer(t, false))
	session, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	output := &lockedBuffer{}
	session.Stdout = output
	if err := session.Shell(); err != nil {
		t.Fatal(err)
	}
	err = waitSession(t, session)
	var exitErr *ssh.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitStatus() != 1 {
		t.Fatalf("exit = %v, want status 1", err)
	}
	if !strings.Contains(output.String(), "pty required") {
		t.Fatalf("output = %q", output.String())
	}
}

func TestSSHSessionTestModeBanner(t *testing.T) {
	client := dial(t, startServer(t, true))
	session, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	if err := session.RequestPty("xterm", 24, 80, ssh.TerminalModes{}); err != nil {
		t.Fatal(err)
	}
	output := &lockedBuffer{}
	session.Stdout = output
	if err := session.Shell(); err != nil {
		t.Fatal(err)
	}
	if err := waitSession(t, session); err != nil {
		t.Fatalf("session exit: %v", err)
	}
	if !strings.Contains(output.String(), "test mode") {
		t.Fatalf("banner missing: %q", output.String())
	}
}
