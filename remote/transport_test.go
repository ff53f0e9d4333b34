package remote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemorySessionDisconnectIsIdempotent(t *testing.T) {
	dialer := NewMemoryDialer()
	session, err := dialer.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	session.Disconnect()
	session.Disconnect()

	connects, disconnects := dialer.Stats()
	if connects != 1 || disconnects != 1 {
		t.Errorf("stats = (%d, %d), want (1, 1)", connects, disconnects)
	}

	if _, err := session.ReadFile("/anything"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed after disconnect, got %v", err)
	}
}

func TestMemoryDialerFailConnect(t *testing.T) {
	dialer := NewMemoryDialer()
	dialer.FailConnect(errors.New("auth failed"))

	_, err := dialer.Connect(context.Background())
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestMemorySessionMissingFile(t *testing.T) {
	dialer := NewMemoryDialer()
	session, _ := dialer.Connect(context.Background())
	defer session.Disconnect()

	if _, err := session.ReadFile("/srv/missing.csv"); !IsNotExist(err) {
		t.Errorf("ReadFile: expected not-exist, got %v", err)
	}
	if _, err := session.Stat("/srv/missing.csv"); !IsNotExist(err) {
		t.Errorf("Stat: expected not-exist, got %v", err)
	}
	if err := session.WriteFile("/srv/missing/x.csv", []byte("x")); !IsNotExist(err) {
		t.Errorf("WriteFile without parent: expected not-exist, got %v", err)
	}
}

func TestWithSessionAlwaysDisconnects(t *testing.T) {
	dialer := NewMemoryDialer()
	boom := errors.New("boom")

	err := WithSession(context.Background(), dialer, func(Session) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	connects, disconnects := dialer.Stats()
	if connects != disconnects {
		t.Errorf("leaked session: connects=%d disconnects=%d", connects, disconnects)
	}
}

func TestLocalDialerRootsPathsUnderBaseDir(t *testing.T) {
	base := t.TempDir()
	dialer := NewLocalDialer(base)

	err := WithSession(context.Background(), dialer, func(s Session) error {
		if err := EnsureDirectory(s, "/srv/escuela/datos"); err != nil {
			return err
		}
		return s.WriteFile("/srv/escuela/datos/inscritos.csv", []byte("id\n"))
	})
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "srv", "escuela", "datos", "inscritos.csv"))
	if err != nil {
		t.Fatalf("expected file under base dir: %v", err)
	}
	if string(data) != "id\n" {
		t.Errorf("content = %q", data)
	}
}

func TestLocalSessionCannotEscapeBaseDir(t *testing.T) {
	base := t.TempDir()
	session := &localSession{baseDir: base}

	got := session.resolve("../../etc/passwd")
	want := filepath.Join(base, "etc", "passwd")
	if got != want {
		t.Errorf("resolve = %q, want %q", got, want)
	}
}

func TestLocalSessionMissingFileIsNotExist(t *testing.T) {
	dialer := NewLocalDialer(t.TempDir())
	session, err := dialer.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer session.Disconnect()

	if _, err := session.ReadFile("/nothing/here.csv"); !IsNotExist(err) {
		t.Errorf("expected not-exist, got %v", err)
	}
}
