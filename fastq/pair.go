package fastq

import (
	"fmt"

	"go.uber.org/multierr"
)

// PairConfig describes paired-end input. Right is ignored when Interleaved
// is set, in which case mates alternate in Left.
type PairConfig struct {
	Left        string
	Right       string
	HasQuality  bool
	Phred64     bool
	Interleaved bool
}

// PairReader yields mates in lock step from two readers, or from
// consecutive records of one interleaved reader.
type PairReader struct {
	left  *Reader
	right *Reader
}

func OpenPair(left, right string, hasQuality, phred64, interleaved bool, opts ...Option) (*PairReader, error) {
	return NewPairReader(PairConfig{
		Left:        left,
		Right:       right,
		HasQuality:  hasQuality,
		Phred64:     phred64,
		Interleaved: interleaved,
	}, opts...)
}

func NewPairReader(cfg PairConfig, opts ...Option) (*PairReader, error) {
	left, err := NewReader(Config{Path: cfg.Left, HasQuality: cfg.HasQuality, Phred64: cfg.Phred64}, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Interleaved {
		return NewPair(left, nil), nil
	}
	if cfg.Right == "" {
		left.Close()
		return nil, fmt.Errorf("no mate file given for %s", cfg.Left)
	}
	right, err := NewReader(Config{Path: cfg.Right, HasQuality: cfg.HasQuality, Phred64: cfg.Phred64}, opts...)
	if err != nil {
		left.Close()
		return nil, err
	}
	return NewPair(left, right), nil
}

// NewPair takes ownership of both readers. A nil right reader means left is
// interleaved.
func NewPair(left, right *Reader) *PairReader {
	return &PairReader{left: left, right: right}
}

func (p *PairReader) Interleaved() bool { return p.right == nil }

// Read returns the next pair, or io.EOF once either side runs out. Partial
// pairs are never returned.
func (p *PairReader) Read() (*RecordPair, error) {
	l, err := p.left.Read()
	if err != nil {
		// Lock step: once the left side ends the right side is not read.
		return nil, err
	}
	mate := p.right
	if mate == nil {
		mate = p.left
	}
	r, err := mate.Read()
	if err != nil {
		return nil, err
	}
	return &RecordPair{Left: l, Right: r}, nil
}

// Err returns the first parse error seen on either side.
func (p *PairReader) Err() error {
	if err := p.left.Err(); err != nil {
		return err
	}
	if p.right != nil {
		return p.right.Err()
	}
	return nil
}

// Progress sums both sides.
func (p *PairReader) Progress() (read, total int64) {
	read, total = p.left.Progress()
	if p.right != nil {
		r, t := p.right.Progress()
		read, total = read+r, total+t
	}
	return read, total
}

func (p *PairReader) Close() error {
	err := p.left.Close()
	if p.right != nil {
		err = multierr.Append(err, p.right.Close())
	}
	return err
}
