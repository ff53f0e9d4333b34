package remote

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"
	"time"
)

type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpStat  Op = "stat"
	OpMkdir Op = "mkdir"
)

// FailFunc decides whether an operation should fail; a nil return lets it proceed.
type FailFunc func(op Op, p string) error

// MemoryDialer is an in-memory host used in tests and dry runs. All sessions
// share the same filesystem.
type MemoryDialer struct {
	mu          sync.Mutex
	files       map[string][]byte
	dirs        map[string]bool
	failConnect error
	fail        FailFunc

	connects    int
	disconnects int
}

func NewMemoryDialer() *MemoryDialer {
	return &MemoryDialer{
		files: map[string][]byte{},
		dirs:  map[string]bool{"/": true, ".": true},
	}
}

// FailConnect makes every Connect return err (wrapped in ErrConnection). nil restores it.
func (d *MemoryDialer) FailConnect(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failConnect = err
}

func (d *MemoryDialer) FailWhen(fn FailFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = fn
}

// PutFile writes a file directly, creating its parent directories.
func (d *MemoryDialer) PutFile(p string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p = path.Clean(p)
	for _, dir := range Ancestors(path.Dir(p)) {
		d.dirs[dir] = true
	}
	d.files[p] = append([]byte(nil), data...)
}

func (d *MemoryDialer) File(p string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[path.Clean(p)]
	return data, ok
}

func (d *MemoryDialer) HasDir(p string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirs[path.Clean(p)]
}

// Files lists every stored file path in sorted order.
func (d *MemoryDialer) Files() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	paths := make([]string, 0, len(d.files))
	for p := range d.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Stats returns how many sessions were opened and released.
func (d *MemoryDialer) Stats() (connects, disconnects int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connects, d.disconnects
}

func (d *MemoryDialer) Connect(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failConnect != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, d.failConnect)
	}
	d.connects++
	return &memorySession{dialer: d}, nil
}

type memorySession struct {
	dialer *MemoryDialer
	closed bool
}

func (s *memorySession) begin(op Op, p string) error {
	if s.closed {
		return fmt.Errorf("%s %s: %w", op, p, ErrSessionClosed)
	}
	if s.dialer.fail != nil {
		if err := s.dialer.fail(op, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *memorySession) ReadFile(p string) ([]byte, error) {
	d := s.dialer
	d.mu.Lock()
	defer d.mu.Unlock()

	p = path.Clean(p)
	if err := s.begin(OpRead, p); err != nil {
		return nil, err
	}
	data, ok := d.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (s *memorySession) WriteFile(p string, data []byte) error {
	d := s.dialer
	d.mu.Lock()
	defer d.mu.Unlock()

	p = path.Clean(p)
	if err := s.begin(OpWrite, p); err != nil {
		return err
	}
	if !d.dirs[path.Dir(p)] {
		return &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	if d.dirs[p] {
		return &fs.PathError{Op: "open", Path: p, Err: fmt.Errorf("is a directory")}
	}
	d.files[p] = append([]byte(nil), data...)
	return nil
}

func (s *memorySession) Stat(p string) (os.FileInfo, error) {
	d := s.dialer
	d.mu.Lock()
	defer d.mu.Unlock()

	p = path.Clean(p)
	if err := s.begin(OpStat, p); err != nil {
		return nil, err
	}
	if d.dirs[p] {
		return memoryFileInfo{name: path.Base(p), dir: true}, nil
	}
	if data, ok := d.files[p]; ok {
		return memoryFileInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (s *memorySession) Mkdir(p string) error {
	d := s.dialer
	d.mu.Lock()
	defer d.mu.Unlock()

	p = path.Clean(p)
	if err := s.begin(OpMkdir, p); err != nil {
		return err
	}
	if d.dirs[p] {
		return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
	}
	if _, ok := d.files[p]; ok {
		return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
	}
	if !d.dirs[path.Dir(p)] {
		return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrNotExist}
	}
	d.dirs[p] = true
	return nil
}

func (s *memorySession) Disconnect() {
	if s.closed {
		return
	}
	s.closed = true

	s.dialer.mu.Lock()
	s.dialer.disconnects++
	s.dialer.mu.Unlock()
}

type memoryFileInfo struct {
	name string
	size int64
	dir  bool
}

func (i memoryFileInfo) Name() string { return i.name }
func (i memoryFileInfo) Size() int64  { return i.size }
func (i memoryFileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}
func (i memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (i memoryFileInfo) IsDir() bool        { return i.dir }
func (i memoryFileInfo) Sys() any           { return nil }
