package testingx

import (
	"bytes"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func dialRawServer(t *testing.T, srv *RawServer) net.Conn {
	host, port := srv.Endpoint()
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return conn
}

func TestRawServer(t *testing.T) {
	t.Run("records the request and writes the response", func(t *testing.T) {
		srv := MustNewRawServerStdlib(RawResponderWrite([]byte("HTTP/1.1 "), []byte("204 No Content\r\n\r\n")))
		defer srv.Close()
		conn := dialRawServer(t, srv)
		defer conn.Close()
		request := "POST /x HTTP/1.1\r\nHost: example.com\r\nContent-Length: 3\r\n\r\nabc"
		if _, err := conn.Write([]byte(request)); err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(conn)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff("HTTP/1.1 204 No Content\r\n\r\n", string(data)); diff != "" {
			t.Fatal(diff)
		}
		srv.Close()
		requests := srv.Requests()
		if len(requests) != 1 {
			t.Fatal("expected one request")
		}
		if requests[0].Request.Method != "POST" || requests[0].Request.URL.Path != "/x" {
			t.Fatal("unexpected request line")
		}
		if !bytes.Equal(requests[0].Body, []byte("abc")) {
			t.Fatal("unexpected body")
		}
		if string(requests[0].Raw) != request {
			t.Fatal("unexpected raw request")
		}
	})

	t.Run("hang holds the connection until Close", func(t *testing.T) {
		srv := MustNewRawServerStdlib(RawResponderHang())
		conn := dialRawServer(t, srv)
		defer conn.Close()
		conn.Write([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		buffer := make([]byte, 8)
		if _, err := conn.Read(buffer); err == nil {
			t.Fatal("expected a timeout")
		}
		srv.Close()
	})
}
