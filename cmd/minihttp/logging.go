package main

//
// Logging functionality
//

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/iotnet/minihttp/internal/netxlite"
)

// logHandler prints apex/log entries followed by their fields in
// name order, which is how we show the failure, operation and detail
// of a failed request:
//
//	[   0.012345] <warn> fetch failed detail=connection_refused failure=connect_error operation=connect
type logHandler struct {
	start time.Time
	w     io.Writer
}

var _ log.Handler = &logHandler{}

// newLogHandler creates a handler writing to w and measuring the
// elapsed time from now.
func newLogHandler(w io.Writer) *logHandler {
	return &logHandler{start: time.Now(), w: w}
}

// HandleLog implements log.Handler.
func (h *logHandler) HandleLog(e *log.Entry) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%12.6f] <%s> %s", e.Timestamp.Sub(h.start).Seconds(), e.Level, e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&sb, " %s=%v", name, e.Fields.Get(name))
	}
	sb.WriteString("\n")
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// lockedWriter serializes writes from the log handler and from the
// progress bar, which run on different goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	defer lw.mu.Unlock()
	lw.mu.Lock()
	return lw.w.Write(p)
}

// failureFields returns the log fields describing err.
func failureFields(err error) log.Fields {
	var ew *netxlite.ErrWrapper
	if !errors.As(err, &ew) {
		return log.Fields{"error": err.Error()}
	}
	fields := log.Fields{
		"failure":   ew.Failure,
		"operation": ew.Operation,
	}
	if ew.Detail != "" {
		fields["detail"] = ew.Detail
	}
	return fields
}
