package fastq

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

const (
	// Marker starts every identifier line.
	Marker = '@'
	// PlaceholderQual fills the quality of records read without one.
	PlaceholderQual = 'K'
)

// Encoding is the ASCII offset of quality scores.
type Encoding int

const (
	Phred33 Encoding = 33
	Phred64 Encoding = 64
)

// Record is one FASTQ entry. Name keeps the leading marker.
type Record struct {
	Name    string
	Seq     string
	Strand  string
	Qual    string
	Phred64 bool
}

// ID returns the identifier without the marker.
func (r *Record) ID() string {
	return strings.TrimPrefix(r.Name, string(Marker))
}

func (r *Record) Encoding() Encoding {
	if r.Phred64 {
		return Phred64
	}
	return Phred33
}

// Fastx converts the record for use with the shenwei356/bio formatters.
func (r *Record) Fastx() (*fastx.Record, error) {
	s, err := seq.NewSeqWithQualWithoutValidation(seq.Unlimit, []byte(r.Seq), []byte(r.Qual))
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID(), err)
	}
	name := []byte(r.ID())
	id, desc := name, []byte{}
	if i := bytes.IndexAny(name, " \t"); i >= 0 {
		id, desc = name[:i], name[i+1:]
	}
	return &fastx.Record{ID: id, Name: name, Desc: desc, Seq: s}, nil
}

// RecordPair holds the two mates of a paired-end read.
type RecordPair struct {
	Left  *Record
	Right *Record
}

var (
	ErrLengthMismatch  = errors.New("sequence and quality have different length")
	ErrTruncatedRecord = errors.New("input ended inside a record")
)

// ParseError describes the record that stopped a Reader.
type ParseError struct {
	Name   string
	Seq    string
	Strand string
	Qual   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v:\n%s\n%s\n%s\n%s", e.Err, e.Name, e.Seq, e.Strand, e.Qual)
}

func (e *ParseError) Unwrap() error { return e.Err }
