package testingx

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/iotnet/minihttp/internal/runtimex"
)

// TCPListener creates TCP listeners. This type should work both
// with the standard library and with netem as its backend.
type TCPListener interface {
	ListenTCP(network string, addr *net.TCPAddr) (net.Listener, error)
}

// TCPListenerStdlib implements [TCPListener] for the stdlib.
type TCPListenerStdlib struct{}

var _ TCPListener = &TCPListenerStdlib{}

// ListenTCP implements TCPListener.
func (*TCPListenerStdlib) ListenTCP(network string, addr *net.TCPAddr) (net.Listener, error) {
	return net.ListenTCP(network, addr)
}

// RawRequest is a request received by a [*RawServer].
type RawRequest struct {
	// Raw contains the bytes of the header block and of the body.
	Raw []byte

	// Request is the parsed request.
	Request *http.Request

	// Body is the request body.
	Body []byte
}

// RawResponder writes the raw response on conn. The done channel is
// closed when the server is closing.
type RawResponder func(conn net.Conn, done <-chan struct{})

// RawServer is a TCP server that reads an HTTP/1.1 request and answers
// with whatever bytes its [RawResponder] writes. We use it to emit
// responses that a well-behaved HTTP server would refuse to produce.
type RawServer struct {
	closeOnce sync.Once
	done      chan struct{}
	listener  net.Listener
	mu        sync.Mutex
	requests  []*RawRequest
	responder RawResponder
	wg        sync.WaitGroup
}

// MustNewRawServer creates a new [*RawServer] listening on addr, which
// should use port zero to obtain an ephemeral port. This function calls
// [runtimex.PanicOnError] in case of failure.
func MustNewRawServer(tl TCPListener, addr *net.TCPAddr, responder RawResponder) *RawServer {
	listener := runtimex.Try1(tl.ListenTCP("tcp", addr))
	srv := &RawServer{
		done:      make(chan struct{}),
		listener:  listener,
		responder: responder,
	}
	srv.wg.Add(1)
	go srv.acceptLoop()
	return srv
}

// MustNewRawServerStdlib is like [MustNewRawServer] but uses the
// standard library and listens on 127.0.0.1.
func MustNewRawServerStdlib(responder RawResponder) *RawServer {
	return MustNewRawServer(&TCPListenerStdlib{}, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}, responder)
}

// Endpoint returns the IP address and the port where we're listening.
func (srv *RawServer) Endpoint() (string, int) {
	host, port := runtimex.Try2(net.SplitHostPort(srv.listener.Addr().String()))
	return host, runtimex.Try1(strconv.Atoi(port))
}

// Requests returns the requests received so far.
func (srv *RawServer) Requests() []*RawRequest {
	defer srv.mu.Unlock()
	srv.mu.Lock()
	return append([]*RawRequest{}, srv.requests...)
}

// Close stops the server and waits for the pending connections.
func (srv *RawServer) Close() (err error) {
	srv.closeOnce.Do(func() {
		close(srv.done)
		err = srv.listener.Close()
		srv.wg.Wait()
	})
	return
}

func (srv *RawServer) acceptLoop() {
	defer srv.wg.Done()
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			return
		}
		srv.wg.Add(1)
		go srv.serve(conn)
	}
}

func (srv *RawServer) serve(conn net.Conn) {
	defer srv.wg.Done()
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	raw := &bytes.Buffer{}
	req, err := http.ReadRequest(bufio.NewReader(io.TeeReader(conn, raw)))
	if err != nil {
		return
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return
	}
	srv.mu.Lock()
	srv.requests = append(srv.requests, &RawRequest{Raw: raw.Bytes(), Request: req, Body: body})
	srv.mu.Unlock()
	conn.SetReadDeadline(time.Time{})
	srv.responder(conn, srv.done)
}

// RawResponderWrite returns a [RawResponder] that writes each
// piece with a separate Write call and then closes.
func RawResponderWrite(pieces ...[]byte) RawResponder {
	return func(conn net.Conn, done <-chan struct{}) {
		for _, piece := range pieces {
			if _, err := conn.Write(piece); err != nil {
				return
			}
		}
	}
}

// RawResponderString is like [RawResponderWrite] with a single string.
func RawResponderString(response string) RawResponder {
	return RawResponderWrite([]byte(response))
}

// RawResponderReset returns a [RawResponder] that resets the connection.
func RawResponderReset() RawResponder {
	return func(conn net.Conn, done <-chan struct{}) {
		tcpMaybeResetNetConn(conn)
	}
}

// RawResponderHang returns a [RawResponder] that never answers and
// holds the connection open until the server is closed.
func RawResponderHang() RawResponder {
	return func(conn net.Conn, done <-chan struct{}) {
		<-done
	}
}

// tcpMaybeResetNetConn is a portable mechanism to reset a net.Conn that
// takes into account stdlib vs. netem concerns.
//
// Bug: netem is not WAI because there's no *gonet.TCPConn.SetLinger method.
func tcpMaybeResetNetConn(conn net.Conn) {
	type connLingerSetter interface {
		SetLinger(sec int) error
	}
	if setter, good := conn.(connLingerSetter); good {
		setter.SetLinger(0)
	}
	conn.Close()
}
