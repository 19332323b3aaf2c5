package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/1928d/fastp/fastq"
)

// summary accumulates per-read length and mean quality.
type summary struct {
	Records int
	Pairs   int
	Bases   int64

	lengths []float64
	quals   []float64
}

func (s *summary) add(rec *fastq.Record) {
	s.Records++
	s.Bases += int64(len(rec.Seq))
	s.lengths = append(s.lengths, float64(len(rec.Seq)))
	if q := meanQuality(rec); !math.IsNaN(q) {
		s.quals = append(s.quals, q)
	}
}

func (s *summary) addPair(pair *fastq.RecordPair) {
	s.Pairs++
	s.add(pair.Left)
	s.add(pair.Right)
}

// meanQuality decodes quality characters with the record's phred offset.
func meanQuality(rec *fastq.Record) float64 {
	if len(rec.Qual) == 0 {
		return math.NaN()
	}
	offset := int(rec.Encoding())
	total := 0
	for i := 0; i < len(rec.Qual); i++ {
		total += int(rec.Qual[i]) - offset
	}
	return float64(total) / float64(len(rec.Qual))
}

type distribution struct {
	Mean, StdDev, Median, Min, Max float64
}

func describe(x []float64) distribution {
	if len(x) == 0 {
		return distribution{}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}
	return distribution{
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

func (s *summary) report(w io.Writer, read, total int64) {
	fmt.Fprintf(w, "records\t%d\n", s.Records)
	if s.Pairs > 0 {
		fmt.Fprintf(w, "pairs\t%d\n", s.Pairs)
	}
	fmt.Fprintf(w, "bases\t%d\n", s.Bases)

	l := describe(s.lengths)
	fmt.Fprintf(w, "length\tmean=%.2f\tsd=%.2f\tmedian=%.0f\tmin=%.0f\tmax=%.0f\n", l.Mean, l.StdDev, l.Median, l.Min, l.Max)
	q := describe(s.quals)
	fmt.Fprintf(w, "quality\tmean=%.2f\tsd=%.2f\tmedian=%.2f\n", q.Mean, q.StdDev, q.Median)

	if total > 0 {
		fmt.Fprintf(w, "bytes\t%d/%d\n", read, total)
	} else {
		fmt.Fprintf(w, "bytes\t%d\n", read)
	}
}
