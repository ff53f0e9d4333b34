package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"enrollment-backend/config"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/time/rate"
)

// SFTPDialer opens password-authenticated SSH sessions with an SFTP sub-channel.
type SFTPDialer struct {
	endpoint        config.RemoteEndpoint
	hostKeyCallback ssh.HostKeyCallback
	limiter         *rate.Limiter
}

func NewSFTPDialer(endpoint config.RemoteEndpoint) (*SFTPDialer, error) {
	callback, err := hostKeyCallback(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to configure host key verification: %w", err)
	}

	if endpoint.ConnectTimeout <= 0 {
		endpoint.ConnectTimeout = config.DefaultConnectTimeout
	}

	limit := rate.Inf
	if endpoint.DialRate > 0 {
		limit = rate.Limit(endpoint.DialRate)
	}

	return &SFTPDialer{
		endpoint:        endpoint,
		hostKeyCallback: callback,
		limiter:         rate.NewLimiter(limit, 3),
	}, nil
}

func hostKeyCallback(endpoint config.RemoteEndpoint) (ssh.HostKeyCallback, error) {
	switch {
	case endpoint.HostKey != "":
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(endpoint.HostKey))
		if err != nil {
			return nil, fmt.Errorf("invalid host key: %w", err)
		}
		return ssh.FixedHostKey(key), nil
	case endpoint.KnownHostsFile != "":
		return knownhosts.New(endpoint.KnownHostsFile)
	default:
		config.Logger.Warn("No host key configured, accepting any key presented by the remote host",
			zap.String("host", endpoint.Host))
		return ssh.InsecureIgnoreHostKey(), nil
	}
}

func (d *SFTPDialer) Connect(ctx context.Context) (Session, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: dial throttled: %v", ErrConnection, err)
	}

	addr := d.endpoint.Address()
	clientConfig := &ssh.ClientConfig{
		User:            d.endpoint.User,
		Auth:            []ssh.AuthMethod{ssh.Password(d.endpoint.Password)},
		HostKeyCallback: d.hostKeyCallback,
		Timeout:         d.endpoint.ConnectTimeout,
	}

	dialer := net.Dialer{Timeout: d.endpoint.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		config.Logger.Error("SSH dial failed", zap.String("addr", addr), zap.Error(err))
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnection, addr, err)
	}

	// The handshake gets the same budget as the TCP dial
	_ = conn.SetDeadline(time.Now().Add(d.endpoint.ConnectTimeout))
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		config.Logger.Error("SSH handshake failed", zap.String("addr", addr), zap.Error(err))
		return nil, fmt.Errorf("%w: handshake %s: %v", ErrConnection, addr, err)
	}
	_ = conn.SetDeadline(time.Time{})

	client := ssh.NewClient(sshConn, chans, reqs)
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		config.Logger.Error("SFTP subsystem unavailable", zap.String("addr", addr), zap.Error(err))
		return nil, fmt.Errorf("%w: sftp subsystem: %v", ErrConnection, err)
	}

	return &sftpSession{
		ssh:     client,
		sftp:    sftpClient,
		timeout: d.endpoint.OperationTimeout,
	}, nil
}

type sftpSession struct {
	ssh     *ssh.Client
	sftp    *sftp.Client
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// do runs fn under the per-operation timeout. On expiry the connection is torn
// down, which unblocks fn.
func (s *sftpSession) do(op, p string, fn func() error) error {
	_, err := doValue(s, op, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func doValue[T any](s *sftpSession, op, p string, fn func() (T, error)) (T, error) {
	var zero T
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return zero, fmt.Errorf("%s %s: %w", op, p, ErrSessionClosed)
	}

	value, err := runWithTimeout(s.timeout, fn)
	if errors.Is(err, errTimedOut) {
		s.Disconnect()
		return zero, fmt.Errorf("%s %s: %w", op, p, ErrTimeout)
	}
	return value, err
}

type outcome[T any] struct {
	value T
	err   error
}

var errTimedOut = errors.New("operation timed out")

// runWithTimeout returns errTimedOut when fn has not returned within timeout.
// fn owns its result until it sends it, so a late finish touches nothing the
// caller reads. A non-positive timeout runs fn inline.
func runWithTimeout[T any](timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout <= 0 {
		return fn()
	}

	done := make(chan outcome[T], 1)
	go func() {
		value, err := fn()
		done <- outcome[T]{value: value, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.value, res.err
	case <-timer.C:
		var zero T
		return zero, errTimedOut
	}
}

func (s *sftpSession) ReadFile(p string) ([]byte, error) {
	return doValue(s, "read", p, func() ([]byte, error) {
		f, err := s.sftp.Open(p)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return io.ReadAll(f)
	})
}

func (s *sftpSession) WriteFile(p string, data []byte) error {
	return s.do("write", p, func() error {
		f, err := s.sftp.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func (s *sftpSession) Stat(p string) (os.FileInfo, error) {
	return doValue(s, "stat", p, func() (os.FileInfo, error) {
		return s.sftp.Stat(p)
	})
}

func (s *sftpSession) Mkdir(p string) error {
	return s.do("mkdir", p, func() error {
		return s.sftp.Mkdir(p)
	})
}

func (s *sftpSession) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if s.sftp != nil {
		_ = s.sftp.Close()
	}
	if s.ssh != nil {
		_ = s.ssh.Close()
	}
}
