package rawhttp

//
// JSON helpers
//

import (
	"github.com/goccy/go-json"
	"github.com/iotnet/minihttp/internal/netxlite"
)

// NewJSONRequest creates a request for host and path whose body is
// the JSON serialization of v. The port is 80.
func NewJSONRequest(method Method, host, path string, v any) (*Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, netxlite.NewErrWrapper(netxlite.FailureInvalidRequest,
			netxlite.BuildRequestOperation, err)
	}
	req := NewRequest(host, path)
	req.Method = method
	req.ContentType = ContentTypeJSON
	req.Body = data
	return req, nil
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body(), v)
}
