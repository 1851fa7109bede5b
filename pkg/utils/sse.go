package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// SendSSEChunk writes payload as one "data:" event and flushes it. A write
// error usually means the client went away.
func SendSSEChunk(w http.ResponseWriter, flusher http.Flusher, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal sse payload")
	}

	buf := make([]byte, 0, len(data)+8)
	buf = append(buf, "data: "...)
	buf = append(buf, data...)
	buf = append(buf, "\n\n"...)
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "write sse event")
	}
	flusher.Flush()
	return nil
}

// SetupSSEHeaders prepares an event-stream response that proxies must not buffer.
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}
