package main

import (
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/1928d/fastp/fastq"
)

func main() {
	var o options
	flag.StringVar(&o.In, "in", "", "read from `file` (\"-\" for stdin, .gz is decompressed)")
	flag.StringVar(&o.In2, "in2", "", "read mates from `file`")
	flag.BoolVar(&o.Interleaved, "interleaved", false, "mates alternate in -in")
	flag.BoolVar(&o.NoQuality, "no-quality", false, "records have no quality line")
	flag.BoolVar(&o.Phred64, "phred64", false, "quality scores use offset 64")
	flag.StringVar(&o.Out, "out", "", "also write records (pairs interleaved) to `file`")
	flag.IntVar(&o.ChunkSize, "chunk-size", fastq.DefaultChunkSize, "bytes read per refill")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if o.In == "" {
		logger.Fatal("Must supply -in parameter")
	}

	if err := run(o, os.Stdout, logger); err != nil {
		logger.Fatal("fastq_stats failed", zap.Error(err))
	}
}
