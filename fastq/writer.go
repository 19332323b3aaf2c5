package fastq

import (
	"errors"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// formatWidth is large enough that sequence lines are never wrapped.
const formatWidth = 100000

var ErrWriterClosed = errors.New("record writer is closed")

// RecordWriter writes records in an async fashion. Output is gzip
// compressed when the file name ends in ".gz".
// Call Close() when you're done!
type RecordWriter struct {
	writer    *xopen.Writer
	cacheSize int
	cache     []*fastx.Record
	records   chan []*fastx.Record
	errors    chan error
	closed    bool
}

// NewRecordWriter creates a nice new writer
// cachesize: How many records to buffer at a time
func NewRecordWriter(filename string, cachesize int) (*RecordWriter, error) {
	writer, err := xopen.Wopen(filename)
	if err != nil {
		return nil, err
	}
	if cachesize < 1 {
		cachesize = 1
	}

	w := RecordWriter{
		writer:    writer,
		cacheSize: cachesize,
		cache:     make([]*fastx.Record, 0, cachesize),
		records:   make(chan []*fastx.Record), // unbuffered
		errors:    make(chan error, 1),
	}

	go func(w *RecordWriter) {
		for records := range w.records {
			for _, record := range records {
				record.FormatToWriter(w.writer, formatWidth)
			}
		}
		w.errors <- w.writer.Close()
		close(w.errors)
	}(&w)
	return &w, nil
}

func (w *RecordWriter) Write(record *Record) error {
	if w.closed {
		return ErrWriterClosed
	}
	fr, err := record.Fastx()
	if err != nil {
		return err
	}
	w.cache = append(w.cache, fr)
	if len(w.cache) == w.cacheSize {
		w.Flush()
	}
	return nil
}

// WritePair writes both mates, left first.
func (w *RecordWriter) WritePair(pair *RecordPair) error {
	if err := w.Write(pair.Left); err != nil {
		return err
	}
	return w.Write(pair.Right)
}

// Flush hands the cached records to the writing goroutine.
func (w *RecordWriter) Flush() {
	if w.closed || len(w.cache) == 0 {
		return
	}
	w.records <- w.cache
	// The goroutine owns the old slice now.
	w.cache = make([]*fastx.Record, 0, w.cacheSize)
}

func (w *RecordWriter) Close() error {
	if w.closed {
		return nil
	}
	w.Flush()
	w.closed = true
	close(w.records)
	return <-w.errors
}
