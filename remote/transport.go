package remote

import (
	"context"
	"os"
)

// Session is one live connection to a storage host. Paths are slash-separated
// and absolute paths are interpreted relative to the host's filesystem root.
type Session interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile creates or truncates path. The parent directory must exist.
	WriteFile(path string, data []byte) error
	Stat(path string) (os.FileInfo, error)
	// Mkdir creates a single directory level.
	Mkdir(path string) error
	// Disconnect releases the session. Safe to call more than once.
	Disconnect()
}

// Dialer opens fresh sessions. Sessions are never pooled: every operation
// connects, does its work and disconnects before returning.
type Dialer interface {
	Connect(ctx context.Context) (Session, error)
}

// WithSession connects, runs fn and always disconnects.
func WithSession(ctx context.Context, dialer Dialer, fn func(Session) error) error {
	session, err := dialer.Connect(ctx)
	if err != nil {
		return err
	}
	defer session.Disconnect()

	return fn(session)
}
