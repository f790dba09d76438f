package sse

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/taskview/internal/shared"
)

// DefaultType is the event type used when a frame carries no event field.
const DefaultType = "message"

// maxLine bounds a single field line; rendered task rows can be large.
const maxLine = 1 << 20

// Event is one dispatched frame.
type Event struct {
	ID   string
	Type string
	Data string
}

// Decoder reads frames from an event stream.
type Decoder struct {
	scanner *bufio.Scanner
	lastID  string
	retry   time.Duration
}

// NewDecoder returns a decoder reading r. lastID seeds the last event id buffer.
func NewDecoder(r io.Reader, lastID string) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	s.Split(scanLines)
	return &Decoder{scanner: s, lastID: lastID}
}

// scanLines splits on CRLF, LF or a bare CR.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i := bytes.IndexAny(data, "\r\n")
	if i < 0 {
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	if data[i] == '\n' {
		return i + 1, data[:i], nil
	}
	if i+1 < len(data) {
		if data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return i + 1, data[:i], nil
	}
	return 0, nil, nil
}

// LastID returns the most recent id field seen.
func (d *Decoder) LastID() string { return d.lastID }

// Retry returns the reconnection delay requested by the server, or zero.
func (d *Decoder) Retry() time.Duration { return d.retry }

// Next returns the next dispatched event.
//
// Frames with no data lines are not dispatched. An unterminated frame at end of stream is discarded
// and Next returns [io.EOF].
func (d *Decoder) Next() (Event, error) {
	var (
		typ     string
		data    strings.Builder
		hasData bool
	)

	for d.scanner.Scan() {
		line := d.scanner.Text()
		if line == "" {
			if !hasData {
				typ = ""
				continue
			}
			if typ == "" {
				typ = DefaultType
			}
			return Event{ID: d.lastID, Type: typ, Data: strings.TrimSuffix(data.String(), "\n")}, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "event":
			typ = value
		case "data":
			data.WriteString(value)
			data.WriteByte('\n')
			hasData = true
		case "id":
			if !strings.ContainsRune(value, 0) {
				d.lastID = value
			}
		case "retry":
			if ms, err := strconv.ParseUint(value, 10, 63); err == nil {
				d.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := d.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Event{}, fmt.Errorf("%w: limit is %d bytes", shared.ErrLineTooLong, maxLine)
		}
		return Event{}, err
	}
	return Event{}, io.EOF
}
