package remote

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrConnection covers authentication, network and timeout failures alike;
	// callers only need to know the host is unavailable.
	ErrConnection = errors.New("remote host unavailable")

	ErrTimeout       = fmt.Errorf("%w: operation timed out", ErrConnection)
	ErrSessionClosed = fmt.Errorf("%w: session closed", ErrConnection)
)

// DirectoryProvisionError reports the first ancestor directory that could not be created.
type DirectoryProvisionError struct {
	Path string
	Err  error
}

func (e *DirectoryProvisionError) Error() string {
	return fmt.Sprintf("cannot provision directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryProvisionError) Unwrap() error {
	return e.Err
}

// IsNotExist reports whether err means the remote path does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
