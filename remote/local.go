package remote

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// LocalDialer serves sessions backed by a local directory. It stands in for the
// remote host when no remote connection is configured; remote paths are rooted
// under baseDir, so "/srv/escuela/datos" lands in baseDir/srv/escuela/datos.
type LocalDialer struct {
	baseDir string
}

func NewLocalDialer(baseDir string) *LocalDialer {
	return &LocalDialer{baseDir: baseDir}
}

func (d *LocalDialer) Connect(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := os.Stat(d.baseDir); os.IsNotExist(err) {
		if err := os.MkdirAll(d.baseDir, 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create local data directory: %v", ErrConnection, err)
		}
	}
	return &localSession{baseDir: d.baseDir}, nil
}

type localSession struct {
	baseDir string
	closed  bool
}

// resolve maps a slash path onto the base directory; ".." cannot escape it.
func (s *localSession) resolve(p string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(path.Clean("/"+p)))
}

func (s *localSession) check(op, p string) error {
	if s.closed {
		return fmt.Errorf("%s %s: %w", op, p, ErrSessionClosed)
	}
	return nil
}

func (s *localSession) ReadFile(p string) ([]byte, error) {
	if err := s.check("read", p); err != nil {
		return nil, err
	}
	return os.ReadFile(s.resolve(p))
}

func (s *localSession) WriteFile(p string, data []byte) error {
	if err := s.check("write", p); err != nil {
		return err
	}

	fullPath := s.resolve(p)
	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := dst.Write(data); err != nil {
		dst.Close()
		// Clean up on error
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file content: %w", err)
	}
	return dst.Close()
}

func (s *localSession) Stat(p string) (os.FileInfo, error) {
	if err := s.check("stat", p); err != nil {
		return nil, err
	}
	return os.Stat(s.resolve(p))
}

func (s *localSession) Mkdir(p string) error {
	if err := s.check("mkdir", p); err != nil {
		return err
	}
	return os.Mkdir(s.resolve(p), 0755)
}

func (s *localSession) Disconnect() {
	s.closed = true
}
