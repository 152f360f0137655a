// Package opencode adapts opencode plugin events to chime's domain
package opencode

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"chime/internal/domain"
	"chime/internal/logging"
)

// maxEventBytes caps a single event payload. Events are small JSON objects.
const maxEventBytes = 1 << 20

// wireEvent matches the JSON shape of opencode bus events
type wireEvent struct {
	Properties map[string]any `json:"properties"`
	Type       string         `json:"type"`
}

// DecodeEvent reads exactly one JSON event from r
func DecodeEvent(r io.Reader) (domain.Event, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxEventBytes+1))
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to read event: %w", err)
	}
	if len(data) > maxEventBytes {
		return domain.Event{}, fmt.Errorf("event exceeds %d bytes", maxEventBytes)
	}
	return ParseEvent(data)
}

// ParseEvent converts a JSON payload into a domain event
func ParseEvent(data []byte) (domain.Event, error) {
	var wire wireEvent
	if err := json.Unmarshal(bytes.TrimSpace(data), &wire); err != nil {
		return domain.Event{}, fmt.Errorf("invalid event JSON: %w", err)
	}

	eventType := strings.TrimSpace(wire.Type)
	if eventType == "" {
		return domain.Event{}, domain.ErrEmptyEventType
	}

	return domain.Event{
		Properties: wire.Properties,
		SessionID:  sessionIDFrom(wire.Properties),
		Type:       eventType,
	}, nil
}

// sessionIDFrom finds the session ID in the places opencode puts it:
// properties.sessionID for session and permission events, properties.info for message and session updates
func sessionIDFrom(properties map[string]any) string {
	if id, ok := properties["sessionID"].(string); ok {
		return id
	}
	if info, ok := properties["info"].(map[string]any); ok {
		if id, ok := info["sessionID"].(string); ok {
			return id
		}
		if id, ok := info["id"].(string); ok {
			return id
		}
	}
	return ""
}

// Stream decodes newline-delimited JSON events from r and calls handle for each, in order.
// Blank lines are skipped. Malformed lines, including lines over maxEventBytes, are logged
// and skipped. Returns when r is exhausted or ctx is cancelled.
func Stream(ctx context.Context, r io.Reader, handle func(domain.Event)) error {
	lines := make(chan streamLine)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		reader := bufio.NewReaderSize(r, 64*1024)
		for {
			line, err := readLine(reader)
			if len(line.data) > 0 || line.tooLong {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					err = nil
				}
				errs <- err
				return
			}
		}
	}()

	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					if err != nil {
						return fmt.Errorf("failed to read event stream: %w", err)
					}
					return nil
				default:
					// Reader stopped because ctx was cancelled
					return ctx.Err()
				}
			}
			lineNo++
			if line.tooLong {
				logging.Logger.Warn("Skipping oversized event", "line", lineNo, "limit_bytes", maxEventBytes)
				continue
			}
			if len(bytes.TrimSpace(line.data)) == 0 {
				continue
			}
			event, err := ParseEvent(line.data)
			if err != nil {
				logging.Logger.Warn("Skipping malformed event", "line", lineNo, "error", err)
				continue
			}
			handle(event)
		}
	}
}

// streamLine is one NDJSON line. Oversized lines carry no data.
type streamLine struct {
	data    []byte
	tooLong bool
}

// readLine returns the next line without its trailing newline.
// A line longer than maxEventBytes is consumed up to its newline and reported as tooLong,
// so the lines after it are still read.
func readLine(reader *bufio.Reader) (streamLine, error) {
	var line streamLine
	for {
		chunk, err := reader.ReadSlice('\n')
		if !line.tooLong {
			if len(line.data)+len(chunk) > maxEventBytes+1 {
				line.data = nil
				line.tooLong = true
			} else {
				line.data = append(line.data, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line.data = bytes.TrimSuffix(line.data, []byte("\n"))
		return line, err
	}
}
