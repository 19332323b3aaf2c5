package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1928d/fastp/fastq"
)

// writerCacheSize is how many records each output buffers before a flush.
const writerCacheSize = 128

// Stats counts what happened to the input records.
type Stats struct {
	Records   int
	Matched   int
	Unmatched int
}

func demux(config *Config, logger *zap.Logger) (stats Stats, err error) {

	for _, conflict := range config.applyMismatches() {
		logger.Warn("dropping ambiguous barcode", zap.String("barcode", conflict))
	}

	// Open all outputs!
	destinations := make(map[string]*fastq.RecordWriter)
	fileLookup := make(map[string]*fastq.RecordWriter)
	defer func() {
		err = multierr.Append(err, closeWriters(fileLookup, config.Threads))
	}()
	for barcode, filename := range config.Destinations {
		// Check if it's already open!
		if fh, opened := fileLookup[filename]; opened {
			destinations[barcode] = fh
			continue
		}
		fh, err := fastq.NewRecordWriter(filename, writerCacheSize)
		if err != nil {
			return stats, fmt.Errorf("opening output %s: %w", filename, err)
		}
		destinations[barcode] = fh
		fileLookup[filename] = fh
	}

	for _, inputFilename := range config.Inputs {
		if err := demuxFile(inputFilename, config, destinations, &stats, logger); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func demuxFile(filename string, config *Config, destinations map[string]*fastq.RecordWriter, stats *Stats, logger *zap.Logger) error {
	fq, err := fastq.Open(filename, config.hasQuality(), config.Phred64, fastq.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fq.Close()

	for {
		record, err := fq.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		stats.Records++

		dest, ok := destinations[barcode(record.Name)]
		if !ok {
			stats.Unmatched++
			continue
		}
		if err := dest.Write(record); err != nil {
			return err
		}
		stats.Matched++
	}
	if err := fq.Err(); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	read, total := fq.Progress()
	logger.Info("finished input",
		zap.String("file", filename),
		zap.Int64("bytes_read", read),
		zap.Int64("bytes_total", total),
	)
	return nil
}

// barcode is whatever follows the last colon of the identifier.
func barcode(name string) string {
	i := strings.LastIndexByte(name, ':')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

func closeWriters(writers map[string]*fastq.RecordWriter, threads int) error {
	var g errgroup.Group
	if threads > 0 {
		g.SetLimit(threads)
	}
	for _, w := range writers {
		g.Go(w.Close)
	}
	return g.Wait()
}

// mismatches
func mismatches(input string, distance int) (out []string) {
	mutations := []rune{'A', 'C', 'G', 'T', 'N'}
	toCheck := []string{input}
	seen := make(map[string]struct{}) // avoid double-counting

	for ; distance >= 0; distance-- {
		nextCheck := make([]string, 0, len(input)*(len(mutations)-1))

		for _, curBC := range toCheck {
			seen[curBC] = struct{}{}
			if distance == 0 {
				continue
			}
			for i, c := range curBC {
				switch c {
				case 'A', 'C', 'G', 'T', 'N':
					for _, replacement := range mutations {
						if replacement == c {
							continue
						}
						newBC := curBC[:i] + string(replacement) + curBC[i+1:]
						if _, alreadySeen := seen[newBC]; !alreadySeen {
							nextCheck = append(nextCheck, newBC)
						}
					}
				default:
					// nothing
				}
			}
		}
		toCheck = nextCheck
	}
	for k := range seen {
		out = append(out, k)
	}
	return out
}
