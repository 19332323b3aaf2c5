package fastq

import "bytes"

type scanState int

const (
	scanning scanState = iota
	needsRefill
	exhausted
)

func (s scanState) String() string {
	switch s {
	case scanning:
		return "scanning"
	case needsRefill:
		return "needs-refill"
	case exhausted:
		return "exhausted"
	}
	return "unknown"
}

// lineScanner splits the chunk buffer into logical lines. A line whose
// terminator is not in the current chunk is collected in partial until a
// later chunk completes it.
type lineScanner struct {
	buf     *chunkBuffer
	state   scanState
	partial []byte
	err     error
}

func newLineScanner(buf *chunkBuffer) *lineScanner {
	return &lineScanner{buf: buf, state: scanning}
}

// next returns the next line without its terminator. ok is false once the
// input has no more lines.
func (s *lineScanner) next() (line string, ok bool) {
	for {
		switch s.state {
		case scanning:
			if line, ok = s.scan(); ok {
				return line, true
			}
			s.state = needsRefill
		case needsRefill:
			s.state = s.afterRefill()
			if s.state == exhausted && s.err == nil && len(s.partial) > 0 {
				// Last line of an input without a trailing line feed.
				line = string(s.partial)
				s.partial = s.partial[:0]
				return line, true
			}
		case exhausted:
			return "", false
		}
	}
}

// scan looks for a terminator in the unread part of the chunk. Without one
// the rest of the chunk is moved to partial.
func (s *lineScanner) scan() (string, bool) {
	b := s.buf
	window := b.buf[b.pos:b.n]
	end := bytes.IndexByte(window, '\n')
	if end < 0 {
		s.partial = append(s.partial, window...)
		b.pos = b.n
		return "", false
	}
	b.pos += end + 1

	line := window[:end]
	if len(s.partial) > 0 {
		s.partial = append(s.partial, line...)
		line = s.partial
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	out := string(line)
	s.partial = s.partial[:0]
	return out, true
}

// afterRefill is the needs-refill transition. Only a full chunk from a source
// that has not reported its end can be followed by more data.
func (s *lineScanner) afterRefill() scanState {
	b := s.buf
	if b.n == 0 || !b.full() || b.src.AtEOF() {
		return exhausted
	}
	if err := b.refill(); err != nil {
		s.err = err
		return exhausted
	}
	return scanning
}
