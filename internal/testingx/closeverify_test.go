package testingx

import (
	"context"
	"net"
	"testing"

	"github.com/iotnet/minihttp/internal/mocks"
)

func newMockedNetwork(local string) *mocks.UnderlyingNetwork {
	return &mocks.UnderlyingNetwork{
		MockDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
			conn := &mocks.Conn{
				Local: &mocks.Addr{
					MockString:  func() string { return local },
					MockNetwork: func() string { return "tcp" },
				},
				MockClose: func() error {
					return nil
				},
			}
			return conn, nil
		},
	}
}

func TestCloseVerify(t *testing.T) {
	t.Run("closed once", func(t *testing.T) {
		cv := &CloseVerify{}
		unet := cv.WrapUnderlyingNetwork(newMockedNetwork("10.0.0.1:5555"))
		conn, err := unet.DialContext(context.Background(), "tcp", "10.0.0.2:80")
		if err != nil {
			t.Fatal(err)
		}
		if err := cv.CheckClosedOnce(); err == nil {
			t.Fatal("expected an error for the open conn")
		}
		conn.Close()
		if err := cv.CheckClosedOnce(); err != nil {
			t.Fatal(err)
		}
		if cv.Dials() != 1 {
			t.Fatal("unexpected number of dials")
		}
	})

	t.Run("closed twice", func(t *testing.T) {
		cv := &CloseVerify{}
		unet := cv.WrapUnderlyingNetwork(newMockedNetwork("10.0.0.1:5556"))
		conn, err := unet.DialContext(context.Background(), "tcp", "10.0.0.2:80")
		if err != nil {
			t.Fatal(err)
		}
		conn.Close()
		conn.Close()
		if err := cv.CheckClosedOnce(); err == nil {
			t.Fatal("expected an error for the double close")
		}
	})
}
