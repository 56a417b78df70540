package netxlite

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/iotnet/minihttp/internal/mocks"
	"github.com/iotnet/minihttp/internal/model"
)

func TestDefaultTimeouts(t *testing.T) {
	timeouts := DefaultTimeouts()
	if timeouts.Connect != 10*time.Second || timeouts.Read != 10*time.Second ||
		timeouts.Write != 10*time.Second || timeouts.WriteWait != time.Second {
		t.Fatalf("unexpected timeouts: %+v", timeouts)
	}
}

func TestConnectorConnect(t *testing.T) {
	t.Run("with an invalid address", func(t *testing.T) {
		var dialed bool
		network := &mocks.UnderlyingNetwork{
			MockDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				dialed = true
				return nil, errors.New("should not be called")
			},
		}
		connector := NewConnector(nil, network, DefaultTimeouts())
		conn, err := connector.Connect(context.Background(), "example.com", 80)
		if !errors.Is(err, ErrConnect) || !errors.Is(err, ErrInvalidAddress) {
			t.Fatal("unexpected error", err)
		}
		if conn != nil {
			t.Fatal("expected nil conn")
		}
		if dialed {
			t.Fatal("should not have dialed")
		}
	})

	for _, port := range []int{0, -1, 65536} {
		t.Run("with an invalid port", func(t *testing.T) {
			connector := NewConnector(nil, nil, DefaultTimeouts())
			conn, err := connector.Connect(context.Background(), "127.0.0.1", port)
			if !errors.Is(err, ErrConnect) || !errors.Is(err, ErrInvalidPort) {
				t.Fatal("unexpected error", err)
			}
			if conn != nil {
				t.Fatal("expected nil conn")
			}
		})
	}

	t.Run("when the dial fails", func(t *testing.T) {
		var messages []string
		logger := &mocks.Logger{
			MockDebugf: func(format string, v ...interface{}) {
				messages = append(messages, format)
			},
		}
		network := &mocks.UnderlyingNetwork{
			MockDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				if network != "tcp" || address != "10.0.0.1:8080" {
					t.Error("unexpected network or address", network, address)
				}
				return nil, syscall.ECONNREFUSED
			},
		}
		connector := NewConnector(logger, network, DefaultTimeouts())
		conn, err := connector.Connect(context.Background(), "10.0.0.1", 8080)
		var ew *ErrWrapper
		if !errors.As(err, &ew) {
			t.Fatal("expected an ErrWrapper", err)
		}
		if ew.Failure != FailureConnect || ew.Operation != ConnectOperation ||
			ew.Detail != FailureConnectionRefused {
			t.Fatalf("unexpected wrapper: %+v", ew)
		}
		if conn != nil {
			t.Fatal("expected nil conn")
		}
		if len(messages) != 2 {
			t.Fatal("expected two log messages", messages)
		}
	})

	t.Run("uses brackets for IPv6 addresses", func(t *testing.T) {
		network := &mocks.UnderlyingNetwork{
			MockDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				if address != "[::1]:443" {
					t.Error("unexpected address", address)
				}
				return nil, syscall.ECONNREFUSED
			},
		}
		connector := NewConnector(nil, network, DefaultTimeouts())
		connector.Connect(context.Background(), "::1", 443)
	})

	t.Run("applies the connect timeout", func(t *testing.T) {
		network := &mocks.UnderlyingNetwork{
			MockDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				deadline, ok := ctx.Deadline()
				if !ok {
					t.Error("expected a deadline")
				}
				if time.Until(deadline) > 3*time.Second {
					t.Error("deadline too far in the future")
				}
				return nil, context.DeadlineExceeded
			},
		}
		timeouts := DefaultTimeouts()
		timeouts.Connect = 3 * time.Second
		connector := NewConnector(nil, network, timeouts)
		_, err := connector.Connect(context.Background(), "10.0.0.1", 80)
		var ew *ErrWrapper
		if !errors.As(err, &ew) || ew.Detail != FailureGenericTimeoutError {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("on success wraps the conn to enforce timeouts", func(t *testing.T) {
		expected := &mocks.Conn{}
		network := &mocks.UnderlyingNetwork{
			MockDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				return expected, nil
			},
		}
		timeouts := Timeouts{Read: time.Second, Write: 2 * time.Second}
		connector := NewConnector(model.DiscardLogger, network, timeouts)
		conn, err := connector.Connect(context.Background(), "10.0.0.1", 80)
		if err != nil {
			t.Fatal(err)
		}
		tconn := conn.(*timeoutConn)
		if tconn.Conn != expected {
			t.Fatal("unexpected underlying conn")
		}
		if tconn.readTimeout != time.Second || tconn.writeTimeout != 2*time.Second {
			t.Fatal("unexpected timeouts")
		}
		if connector.Timeouts() != timeouts {
			t.Fatal("unexpected Timeouts()")
		}
	})

	t.Run("with a closed loopback port", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addr := listener.Addr().(*net.TCPAddr)
		listener.Close()
		connector := NewConnector(nil, nil, DefaultTimeouts())
		conn, err := connector.Connect(context.Background(), "127.0.0.1", addr.Port)
		if !errors.Is(err, ErrConnect) {
			t.Fatal("unexpected error", err)
		}
		if conn != nil {
			t.Fatal("expected nil conn")
		}
	})

	t.Run("with a loopback listener", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer listener.Close()
		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Write([]byte("HTTP/1.1 204 No Content\r\n\r\n"))
			conn.Close()
		}()
		addr := listener.Addr().(*net.TCPAddr)
		connector := NewConnector(nil, nil, DefaultTimeouts())
		conn, err := connector.Connect(context.Background(), "127.0.0.1", addr.Port)
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close()
		buf, err := ReadAll(conn, DefaultBufferPolicy())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(buf.Bytes()), "HTTP/1.1 204") {
			t.Fatal("unexpected response", string(buf.Bytes()))
		}
	})
}

func TestTimeoutsWithDefaults(t *testing.T) {
	got := Timeouts{Read: 2 * time.Second, Write: -1}.WithDefaults()
	expect := Timeouts{
		Connect:   10 * time.Second,
		Read:      2 * time.Second,
		Write:     10 * time.Second,
		WriteWait: time.Second,
	}
	if got != expect {
		t.Fatalf("unexpected timeouts: %+v", got)
	}
}
