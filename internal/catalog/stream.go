// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// readChunkSize is the read size used when pulling from a catalog body.
const readChunkSize = 32 * 1024

// Stream reader errors.
var (
	ErrMalformedRecord   = errors.New("malformed catalog record")
	ErrSessionNotStarted = errors.New("ingestion session not started")
	ErrSessionFinished   = errors.New("ingestion session already finished")
)

// LineError reports the catalog line that failed to decode.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap exposes both ErrMalformedRecord and the decoder error.
func (e *LineError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// Consumer receives decoded records one at a time, in arrival order.
// Returning an error aborts the session.
type Consumer func(Record) error

type sessionState int

const (
	sessionIdle sessionState = iota
	sessionRunning
	sessionFinished
	sessionFailed
)

// Session incrementally decodes a newline-delimited JSON byte stream.
// Chunks may split lines anywhere, including inside a multibyte character:
// bytes are only split on '\n', which never occurs inside a UTF-8 sequence,
// and each line is decoded as a whole.
//
// A malformed line is fatal: the session fails and emits nothing further.
type Session struct {
	id      string
	consume Consumer
	pending []byte
	line    int
	emitted int
	state   sessionState
	err     error
}

// NewSession creates an idle session delivering records to consume.
func NewSession(consume Consumer) *Session {
	return &Session{
		id:      uuid.NewString(),
		consume: consume,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Emitted returns the number of records delivered so far.
func (s *Session) Emitted() int {
	return s.emitted
}

// Err returns the error that failed the session, if any.
func (s *Session) Err() error {
	return s.err
}

// Start resets the session so it can accept chunks. Restarting a used
// session discards its buffer and counters.
func (s *Session) Start() {
	s.pending = s.pending[:0]
	s.line = 0
	s.emitted = 0
	s.err = nil
	s.state = sessionRunning
}

// Feed appends a chunk and emits every record completed by it.
func (s *Session) Feed(chunk []byte) error {
	if err := s.checkRunning(); err != nil {
		return err
	}

	s.pending = append(s.pending, chunk...)

	rest := s.pending
	for {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			break
		}

		if err := s.emitLine(rest[:idx]); err != nil {
			return s.fail(err)
		}

		rest = rest[idx+1:]
	}

	s.pending = append(s.pending[:0], rest...)

	return nil
}

// Finish emits the trailing fragment, if any, and closes the session.
func (s *Session) Finish() error {
	if err := s.checkRunning(); err != nil {
		return err
	}

	if len(s.pending) > 0 {
		line := s.pending
		s.pending = nil

		if err := s.emitLine(line); err != nil {
			return s.fail(err)
		}
	}

	s.state = sessionFinished

	return nil
}

func (s *Session) checkRunning() error {
	switch s.state {
	case sessionIdle:
		return ErrSessionNotStarted
	case sessionFinished:
		return ErrSessionFinished
	case sessionFailed:
		return s.err
	case sessionRunning:
	}

	return nil
}

func (s *Session) emitLine(line []byte) error {
	s.line++

	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}

	var record Record
	if err := json.Unmarshal(line, &record); err != nil {
		return &LineError{Line: s.line, Err: err}
	}

	if err := s.consume(record); err != nil {
		return err
	}

	s.emitted++

	return nil
}

func (s *Session) fail(err error) error {
	s.state = sessionFailed
	s.err = err
	s.pending = nil

	return err
}

// ReadAll feeds everything from r through a new session. It returns the
// number of records delivered, which stays valid when an error is returned.
func ReadAll(ctx context.Context, r io.Reader, consume Consumer) (int, error) {
	session := NewSession(consume)
	session.Start()

	buf := make([]byte, readChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return session.Emitted(), err
		}

		n, err := r.Read(buf)
		if n > 0 {
			if feedErr := session.Feed(buf[:n]); feedErr != nil {
				return session.Emitted(), feedErr
			}
		}

		if errors.Is(err, io.EOF) {
			return session.Emitted(), session.Finish()
		}

		if err != nil {
			return session.Emitted(), fmt.Errorf("failed to read catalog: %w", err)
		}
	}
}

// Stream pulls records from a catalog body in pages, for load-more paging.
// It is not safe for concurrent use; callers serialise Next.
type Stream struct {
	body    io.ReadCloser
	session *Session
	queue   []Record
	buf     []byte
	eof     bool
	err     error
}

// NewStream wraps body in a started session.
func NewStream(body io.ReadCloser) *Stream {
	stream := &Stream{
		body: body,
		buf:  make([]byte, readChunkSize),
	}

	stream.session = NewSession(func(record Record) error {
		stream.queue = append(stream.queue, record)

		return nil
	})
	stream.session.Start()

	return stream
}

// SessionID identifies the underlying ingestion session.
func (s *Stream) SessionID() string {
	return s.session.ID()
}

// Next returns up to limit records. done is true once the stream is
// exhausted or has failed; no records follow a failure.
func (s *Stream) Next(ctx context.Context, limit int) ([]Record, bool, error) {
	if limit <= 0 {
		limit = 1
	}

	for len(s.queue) < limit && !s.eof && s.err == nil {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		s.fill()
	}

	if s.err != nil {
		// Records decoded before the failure are still whole.
		page := s.queue
		s.queue = nil

		return page, true, s.err
	}

	count := min(limit, len(s.queue))
	page := make([]Record, count)
	copy(page, s.queue[:count])
	s.queue = s.queue[count:]

	return page, s.eof && len(s.queue) == 0, nil
}

// Close releases the underlying body.
func (s *Stream) Close() error {
	if err := s.body.Close(); err != nil {
		return fmt.Errorf("failed to close catalog stream: %w", err)
	}

	return nil
}

func (s *Stream) fill() {
	n, err := s.body.Read(s.buf)
	if n > 0 {
		if feedErr := s.session.Feed(s.buf[:n]); feedErr != nil {
			s.err = feedErr

			return
		}
	}

	switch {
	case errors.Is(err, io.EOF):
		s.eof = true
		s.err = s.session.Finish()
	case err != nil:
		s.err = fmt.Errorf("failed to read catalog: %w", err)
	}
}
