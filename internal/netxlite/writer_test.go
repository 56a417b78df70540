package netxlite

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iotnet/minihttp/internal/mocks"
)

func TestWriteAll(t *testing.T) {
	t.Run("resumes partial writes", func(t *testing.T) {
		var sent []byte
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				count := min(len(b), 3)
				sent = append(sent, b[:count]...)
				return count, nil
			},
		}
		data := []byte("GET / HTTP/1.1\r\n\r\n")
		if err := WriteAll(conn, data, time.Second); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(data, sent); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with empty data", func(t *testing.T) {
		conn := &mocks.Conn{}
		if err := WriteAll(conn, nil, time.Second); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("retries on EINTR", func(t *testing.T) {
		var calls int
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				calls++
				if calls == 1 {
					return 0, syscall.EINTR
				}
				return len(b), nil
			},
		}
		if err := WriteAll(conn, []byte("abc"), time.Second); err != nil {
			t.Fatal(err)
		}
		if calls != 2 {
			t.Fatal("unexpected number of calls", calls)
		}
	})

	t.Run("zero bytes without error means the peer closed", func(t *testing.T) {
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				return 0, nil
			},
		}
		err := WriteAll(conn, []byte("abc"), time.Second)
		if !errors.Is(err, ErrWrite) || !errors.Is(err, ErrPeerClosed) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("waits once when the send buffer is full", func(t *testing.T) {
		var (
			calls    int
			deadline time.Time
		)
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				calls++
				if calls == 1 {
					return 0, os.ErrDeadlineExceeded
				}
				return len(b), nil
			},
			MockSetWriteDeadline: func(t time.Time) error {
				deadline = t
				return nil
			},
		}
		before := time.Now()
		if err := WriteAll(conn, []byte("abc"), 2*time.Second); err != nil {
			t.Fatal(err)
		}
		if deadline.Before(before.Add(2 * time.Second)) {
			t.Fatal("unexpected deadline", deadline)
		}
	})

	t.Run("progress allows waiting again", func(t *testing.T) {
		var calls int
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				calls++
				switch calls {
				case 1, 3:
					return 0, syscall.EAGAIN
				case 2:
					return 1, nil
				default:
					return len(b), nil
				}
			},
			MockSetWriteDeadline: func(t time.Time) error {
				return nil
			},
		}
		if err := WriteAll(conn, []byte("abc"), time.Second); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("fails when waiting did not help", func(t *testing.T) {
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				return 0, os.ErrDeadlineExceeded
			},
			MockSetWriteDeadline: func(t time.Time) error {
				return nil
			},
		}
		err := WriteAll(conn, []byte("abc"), time.Second)
		var ew *ErrWrapper
		if !errors.As(err, &ew) || ew.Failure != FailureWrite {
			t.Fatal("unexpected error", err)
		}
		if ew.Detail != FailureGenericTimeoutError {
			t.Fatal("unexpected detail", ew.Detail)
		}
	})

	t.Run("fails immediately with a zero wait", func(t *testing.T) {
		var calls int
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				calls++
				return 0, syscall.EAGAIN
			},
		}
		if err := WriteAll(conn, []byte("abc"), 0); !errors.Is(err, ErrWrite) {
			t.Fatal("unexpected error", err)
		}
		if calls != 1 {
			t.Fatal("unexpected number of calls", calls)
		}
	})

	t.Run("fails when we cannot set the deadline", func(t *testing.T) {
		expected := errors.New("mocked error")
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				return 0, os.ErrDeadlineExceeded
			},
			MockSetWriteDeadline: func(t time.Time) error {
				return expected
			},
		}
		err := WriteAll(conn, []byte("abc"), time.Second)
		if !errors.Is(err, ErrWrite) || !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("fails on other errors", func(t *testing.T) {
		conn := &mocks.Conn{
			MockWrite: func(b []byte) (int, error) {
				return 0, syscall.EPIPE
			},
		}
		err := WriteAll(conn, []byte("abc"), time.Second)
		var ew *ErrWrapper
		if !errors.As(err, &ew) || ew.Failure != FailureWrite || ew.Detail != FailureBrokenPipe {
			t.Fatal("unexpected error", err)
		}
		if ew.Operation != WriteOperation {
			t.Fatal("unexpected operation", ew.Operation)
		}
	})

	t.Run("with a real pipe and a slow reader", func(t *testing.T) {
		client, server := net.Pipe()
		defer client.Close()
		received := make(chan []byte, 1)
		go func() {
			data, _ := io.ReadAll(server)
			received <- data
		}()
		data := bytes.Repeat([]byte("0123456789"), 100000)
		conn := newTimeoutConn(client, time.Second, time.Second)
		if err := WriteAll(conn, data, time.Second); err != nil {
			t.Fatal(err)
		}
		client.Close()
		if diff := cmp.Diff(data, <-received); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with a real pipe and no reader", func(t *testing.T) {
		client, server := net.Pipe()
		defer client.Close()
		defer server.Close()
		conn := newTimeoutConn(client, 0, 50*time.Millisecond)
		err := WriteAll(conn, []byte("abc"), 50*time.Millisecond)
		var ew *ErrWrapper
		if !errors.As(err, &ew) || ew.Detail != FailureGenericTimeoutError {
			t.Fatal("unexpected error", err)
		}
	})
}
