package fastq

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes a single-end input. It is not modified after Open.
type Config struct {
	Path       string
	HasQuality bool
	Phred64    bool
}

type options struct {
	chunkSize int
	logger    *zap.Logger
}

// Option tunes a Reader.
type Option func(*options)

// WithChunkSize sets the number of bytes read per refill.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithLogger sets where parse diagnostics go.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = stderrLogger()
	}
	return o
}

func stderrLogger() *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(os.Stderr)), zapcore.WarnLevel))
}

// Reader streams records out of a plain or gzip compressed FASTQ file.
type Reader struct {
	cfg     Config
	src     ByteSource
	buf     *chunkBuffer
	scanner *lineScanner
	logger  *zap.Logger

	err  error
	done bool
}

// Open is shorthand for NewReader with a Config.
func Open(path string, hasQuality, phred64 bool, opts ...Option) (*Reader, error) {
	return NewReader(Config{Path: path, HasQuality: hasQuality, Phred64: phred64}, opts...)
}

func NewReader(cfg Config, opts ...Option) (*Reader, error) {
	src, err := OpenSource(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", cfg.Path, err)
	}
	return NewSourceReader(cfg, src, opts...)
}

// NewSourceReader reads records from src and takes ownership of it.
// cfg.Path is only used in messages.
func NewSourceReader(cfg Config, src ByteSource, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	buf := newChunkBuffer(src, o.chunkSize)
	if err := buf.refill(); err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to read %s: %w", cfg.Path, err)
	}
	return &Reader{
		cfg:     cfg,
		src:     src,
		buf:     buf,
		scanner: newLineScanner(buf),
		logger:  o.logger.With(zap.String("file", cfg.Path)),
	}, nil
}

// Read returns the next record, or io.EOF when there are no more. A record
// that cannot be parsed also ends the stream; Err tells why.
func (r *Reader) Read() (*Record, error) {
	if r.done {
		return nil, io.EOF
	}
	rec, err := r.read()
	if err != nil {
		r.done = true
	}
	return rec, err
}

func (r *Reader) read() (*Record, error) {
	var name string
	for {
		line, ok := r.scanner.next()
		if !ok {
			return nil, r.endOfInput()
		}
		// Blank lines and anything else before an identifier are skipped.
		if len(line) > 0 && line[0] == Marker {
			name = line
			break
		}
	}

	// Sequence and separator are read unconditionally; a missing line at the
	// end of input reads as empty.
	pe := &ParseError{Name: name}
	pe.Seq, _ = r.scanner.next()
	pe.Strand, _ = r.scanner.next()
	if r.scanner.err != nil {
		return nil, r.endOfInput()
	}

	var ok bool

	if !r.cfg.HasQuality {
		pe.Qual = strings.Repeat(string(PlaceholderQual), len(pe.Seq))
	} else {
		pe.Qual, ok = r.scanner.next()
		if !ok && len(pe.Seq) > 0 {
			return r.fail(pe, ErrTruncatedRecord)
		}
		if len(pe.Qual) != len(pe.Seq) {
			return r.fail(pe, ErrLengthMismatch)
		}
	}

	return &Record{
		Name:    pe.Name,
		Seq:     pe.Seq,
		Strand:  pe.Strand,
		Qual:    pe.Qual,
		Phred64: r.cfg.Phred64,
	}, nil
}

func (r *Reader) endOfInput() error {
	if r.scanner.err != nil {
		r.err = r.scanner.err
		return r.err
	}
	return io.EOF
}

// fail records a parse error and reports it as the end of the input. The
// stream cannot be trusted to be aligned on a record after this.
func (r *Reader) fail(pe *ParseError, cause error) (*Record, error) {
	if r.scanner.err != nil {
		r.err = r.scanner.err
		return nil, r.err
	}
	pe.Err = cause
	r.err = pe
	r.logger.Error(cause.Error(),
		zap.String("name", pe.Name),
		zap.String("sequence", pe.Seq),
		zap.String("strand", pe.Strand),
		zap.String("quality", pe.Qual),
	)
	return nil, io.EOF
}

// Err returns the error that ended the stream early, if any.
func (r *Reader) Err() error { return r.err }

// Progress reports bytes consumed and the file's total size.
func (r *Reader) Progress() (read, total int64) { return r.src.Progress() }

// NoTrailingNewline reports whether the input seen so far ended without a
// line feed.
func (r *Reader) NoTrailingNewline() bool { return r.buf.truncatedTail }

func (r *Reader) Compressed() bool { return r.src.Compressed() }

func (r *Reader) Config() Config { return r.cfg }

func (r *Reader) Close() error {
	r.done = true
	return r.src.Close()
}
