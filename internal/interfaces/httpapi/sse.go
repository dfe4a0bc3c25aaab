package httpapi

import (
	"fmt"
	"io"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// sseWriteTimeout bounds a single event or heartbeat write.
const sseWriteTimeout = 10 * time.Second

// writeSSEEvent writes one server-sent event with a JSON data line.
func writeSSEEvent(w io.Writer, id, event string, payload any) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if id != "" {
		_, _ = buf.WriteString("id: " + sanitizeSSEField(id) + "\n")
	}
	_, _ = buf.WriteString("event: " + sanitizeSSEField(event) + "\n")
	_, _ = buf.WriteString("data: ")
	_, _ = buf.Write(data)
	_, _ = buf.WriteString("\n\n")

	_, err = w.Write(buf.B)
	return err
}

func writeSSEComment(w io.Writer, comment string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(": " + sanitizeSSEField(comment) + "\n\n")
	_, err := w.Write(buf.B)
	return err
}

func sanitizeSSEField(value string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
}
