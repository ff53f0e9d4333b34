package remote

import (
	"errors"
	"testing"
	"time"
)

func TestRunWithTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		delay   time.Duration
		want    string
		wantErr error
	}{
		{name: "inline without timeout", timeout: 0, delay: 0, want: "ok"},
		{name: "finishes in time", timeout: time.Second, delay: 0, want: "ok"},
		{name: "times out", timeout: 10 * time.Millisecond, delay: 200 * time.Millisecond, want: "", wantErr: errTimedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runWithTimeout(tt.timeout, func() (string, error) {
				time.Sleep(tt.delay)
				return "ok", nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLateResultDoesNotReachCaller(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	session := &sftpSession{timeout: 10 * time.Millisecond}

	data, err := doValue(session, "read", "/late", func() ([]byte, error) {
		<-release
		defer close(finished)
		return []byte("late"), nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if data != nil {
		t.Fatalf("data = %q, want nil", data)
	}

	// Let the worker complete after the caller has returned; run with -race.
	close(release)
	<-finished
	if data != nil {
		t.Errorf("data changed after timeout: %q", data)
	}

	if _, err := doValue(session, "stat", "/late", func() (int, error) { return 1, nil }); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("err after timeout = %v, want ErrSessionClosed", err)
	}
}
