package rawhttp

import (
	"errors"
	"testing"

	"github.com/iotnet/minihttp/internal/netxlite"
)

func TestRequestValidate(t *testing.T) {
	valid := func() *Request {
		return &Request{
			Method:      MethodPost,
			Host:        "www.example.com",
			Port:        80,
			Path:        "/api/v1?x=1",
			ContentType: ContentTypeFormURLEncoded,
			Cookie:      "session=abc",
		}
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
		valid  bool
	}{{
		name:   "valid request",
		mutate: func(r *Request) {},
		valid:  true,
	}, {
		name:   "host with port",
		mutate: func(r *Request) { r.Host = "10.0.0.1:8080" },
		valid:  true,
	}, {
		name:   "asterisk path",
		mutate: func(r *Request) { r.Method, r.Path = MethodOptions, "*" },
		valid:  true,
	}, {
		name:   "empty cookie",
		mutate: func(r *Request) { r.Cookie = "" },
		valid:  true,
	}, {
		name:   "unknown method",
		mutate: func(r *Request) { r.Method = "PATCH" },
	}, {
		name:   "lowercase method",
		mutate: func(r *Request) { r.Method = "get" },
	}, {
		name:   "unknown content type",
		mutate: func(r *Request) { r.ContentType = "text/html" },
	}, {
		name:   "zero port",
		mutate: func(r *Request) { r.Port = 0 },
	}, {
		name:   "port too large",
		mutate: func(r *Request) { r.Port = 65536 },
	}, {
		name:   "empty host",
		mutate: func(r *Request) { r.Host = "" },
	}, {
		name:   "host with CRLF",
		mutate: func(r *Request) { r.Host = "example.com\r\nX-Injected: 1" },
	}, {
		name:   "empty path",
		mutate: func(r *Request) { r.Path = "" },
	}, {
		name:   "relative path",
		mutate: func(r *Request) { r.Path = "index.html" },
	}, {
		name:   "path with space",
		mutate: func(r *Request) { r.Path = "/a b" },
	}, {
		name:   "path with DEL",
		mutate: func(r *Request) { r.Path = "/a\x7f" },
	}, {
		name:   "cookie with newline",
		mutate: func(r *Request) { r.Cookie = "a=b\nc=d" },
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := req.Validate()
			if tt.valid && err != nil {
				t.Fatal("unexpected error", err)
			}
			if !tt.valid && !errors.Is(err, netxlite.ErrInvalidRequest) {
				t.Fatal("unexpected error", err)
			}
		})
	}

	t.Run("nil request", func(t *testing.T) {
		var req *Request
		if err := req.Validate(); !errors.Is(err, netxlite.ErrInvalidRequest) {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"get", "POST", "Put", "delete", "OPTIONS"} {
		if _, err := ParseMethod(name); err != nil {
			t.Fatal(name, err)
		}
	}
	if m, _ := ParseMethod("post"); m != MethodPost {
		t.Fatal("unexpected method", m)
	}
	if _, err := ParseMethod("HEAD"); !errors.Is(err, netxlite.ErrInvalidRequest) {
		t.Fatal("unexpected error", err)
	}
}

func TestParseContentType(t *testing.T) {
	if ct, err := ParseContentType("Application/JSON"); err != nil || ct != ContentTypeJSON {
		t.Fatal("unexpected result", ct, err)
	}
	if _, err := ParseContentType("image/png"); !errors.Is(err, netxlite.ErrInvalidRequest) {
		t.Fatal("unexpected error", err)
	}
}

func TestNewRequest(t *testing.T) {
	req := NewRequest("www.example.com", "/")
	if req.Method != MethodGet || req.Port != 80 || req.ContentType != ContentTypeTextPlain {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Body != nil {
		t.Fatal("expected nil body")
	}
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}
}
