package main

import (
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/1928d/fastp/fastq"
)

type options struct {
	In          string
	In2         string
	Interleaved bool
	NoQuality   bool
	Phred64     bool
	Out         string
	ChunkSize   int
}

func (o options) paired() bool { return o.In2 != "" || o.Interleaved }

func run(o options, stdout io.Writer, logger *zap.Logger) (err error) {
	readerOpts := []fastq.Option{fastq.WithLogger(logger), fastq.WithChunkSize(o.ChunkSize)}

	var out *fastq.RecordWriter
	if o.Out != "" {
		if out, err = fastq.NewRecordWriter(o.Out, 1024); err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, out.Close()) }()
	}

	s := &summary{}
	var read, total int64
	if o.paired() {
		p, err := fastq.OpenPair(o.In, o.In2, !o.NoQuality, o.Phred64, o.Interleaved, readerOpts...)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := readPairs(p, s, out); err != nil {
			return err
		}
		read, total = p.Progress()
	} else {
		r, err := fastq.Open(o.In, !o.NoQuality, o.Phred64, readerOpts...)
		if err != nil {
			return err
		}
		defer r.Close()
		if err := readRecords(r, s, out); err != nil {
			return err
		}
		if r.NoTrailingNewline() {
			logger.Warn("input does not end with a line break", zap.String("file", o.In))
		}
		read, total = r.Progress()
	}

	s.report(stdout, read, total)
	return nil
}

func readRecords(r *fastq.Reader, s *summary, out *fastq.RecordWriter) error {
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return r.Err()
		}
		if err != nil {
			return err
		}
		s.add(rec)
		if out != nil {
			if err := out.Write(rec); err != nil {
				return err
			}
		}
	}
}

func readPairs(p *fastq.PairReader, s *summary, out *fastq.RecordWriter) error {
	for {
		pair, err := p.Read()
		if err == io.EOF {
			return p.Err()
		}
		if err != nil {
			return err
		}
		s.addPair(pair)
		if out != nil {
			if err := out.WritePair(pair); err != nil {
				return err
			}
		}
	}
}
