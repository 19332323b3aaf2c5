package fastq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"
)

// ByteSource is what the chunk buffer pulls bytes from. Plain files, gzip
// files and standard input all look the same from above.
type ByteSource interface {
	// Fill reads until p is full, the stream ends or an error occurs.
	// It returns 0, nil once the stream is exhausted.
	Fill(p []byte) (int, error)
	AtEOF() bool
	// Progress reports raw bytes consumed from the underlying file or pipe
	// and the file's total size. For compressed input both count compressed
	// bytes. total is 0 when the size is unknown.
	Progress() (read, total int64)
	Compressed() bool
	// Close may be called more than once.
	Close() error
}

// countingReader counts the raw (possibly compressed) bytes pulled from r.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type stream struct {
	r          io.Reader
	raw        *countingReader
	closers    []io.Closer
	total      int64
	compressed bool
	eof        bool
	closed     bool
}

// OpenSource opens path for reading. Names ending in ".gz" are decompressed,
// "-" and "/dev/stdin" read standard input, anything else is read as is.
func OpenSource(path string) (ByteSource, error) {
	switch {
	case path == "-" || path == "/dev/stdin":
		return openStdin()
	case strings.HasSuffix(path, ".gz"):
		return openGzip(path)
	default:
		return openPlain(path)
	}
}

// NewByteSource wraps an arbitrary reader. If r is an io.Closer it is closed
// along with the source.
func NewByteSource(r io.Reader) ByteSource {
	raw := &countingReader{r: r}
	s := &stream{r: raw, raw: raw}
	if c, ok := r.(io.Closer); ok {
		s.closers = []io.Closer{c}
	}
	return s
}

func openPlain(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	raw := &countingReader{r: f}
	return &stream{
		r:       raw,
		raw:     raw,
		closers: []io.Closer{f},
		total:   fileSize(path),
	}, nil
}

func openGzip(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	raw := &countingReader{r: f}
	zr, err := gzip.NewReader(raw)
	if errors.Is(err, io.EOF) {
		// A zero byte file holds no records, same as an empty plain file.
		return &stream{
			r:          raw,
			raw:        raw,
			closers:    []io.Closer{f},
			total:      fileSize(path),
			compressed: true,
			eof:        true,
		}, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
	}
	return &stream{
		r:          zr,
		raw:        raw,
		closers:    []io.Closer{zr, f},
		total:      fileSize(path),
		compressed: true,
	}, nil
}

// openStdin sniffs the gzip magic bytes since a pipe has no file name.
// Standard input itself is left open on Close.
func openStdin() (ByteSource, error) {
	raw := &countingReader{r: os.Stdin}
	br := bufio.NewReader(raw)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(magic) < 2 || magic[0] != 0x1f || magic[1] != 0x8b {
		return &stream{r: br, raw: raw, eof: len(magic) == 0}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("reading gzip header of stdin: %w", err)
	}
	return &stream{
		r:          zr,
		raw:        raw,
		closers:    []io.Closer{zr},
		compressed: true,
	}, nil
}

// fileSize asks the file system separately so the read offset is untouched.
func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (s *stream) Fill(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	if s.eof {
		return 0, nil
	}
	n, err := io.ReadFull(s.r, p)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		s.eof = true
		err = nil
	default:
		err = fmt.Errorf("read failed after %d bytes: %w", s.raw.n, err)
	}
	return n, err
}

func (s *stream) AtEOF() bool { return s.eof }

func (s *stream) Progress() (int64, int64) { return s.raw.n, s.total }

func (s *stream) Compressed() bool { return s.compressed }

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
