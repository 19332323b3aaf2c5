package fastq

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const twoReads = "@r1\nACGT\n+\nIIII\n@r2\nGGTT\n+\nJJJJ\n"

func TestReaderReadsRecords(t *testing.T) {
	r := stringReader(t, twoReads, true)

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "r1", rec.ID())
	require.Equal(t, "@r1", rec.Name)
	require.Equal(t, "ACGT", rec.Seq)
	require.Equal(t, "+", rec.Strand)
	require.Equal(t, "IIII", rec.Qual)

	rec, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, "r2", rec.ID())
	require.Equal(t, "GGTT", rec.Seq)
	require.Equal(t, "JJJJ", rec.Qual)

	_, err = r.Read()
	require.Equal(t, io.EOF, err)
	require.NoError(t, r.Err())
}

func TestReaderWithoutQuality(t *testing.T) {
	r := stringReader(t, "@r1\nACGT\n+\n@r2\nGGTTA\n+\n", false)
	records := readAll(t, r)
	require.Len(t, records, 2)
	require.Equal(t, "KKKK", records[0].Qual)
	require.Equal(t, "KKKKK", records[1].Qual)
	for _, rec := range records {
		require.Len(t, rec.Qual, len(rec.Seq))
		require.Equal(t, strings.Repeat(string(PlaceholderQual), len(rec.Seq)), rec.Qual)
	}
}

func TestReaderSkipsLinesBeforeIdentifier(t *testing.T) {
	input := "\n\nnot a header\n@r1\nACGT\n+\nIIII\n\n\n@r2\nGG\n+\nJJ\n\n"
	records := readAll(t, stringReader(t, input, true))
	require.Len(t, records, 2)
	require.Equal(t, "r1", records[0].ID())
	require.Equal(t, "r2", records[1].ID())
}

func TestReaderLengthMismatchEndsStream(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	input := "@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\nIII\n@r3\nACGT\n+\nIIII\n"
	r := stringReader(t, input, true, WithLogger(zap.New(core)))

	rec, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "r1", rec.ID())

	for i := 0; i < 3; i++ {
		rec, err = r.Read()
		require.Nil(t, rec)
		require.Equal(t, io.EOF, err)
	}

	var pe *ParseError
	require.True(t, errors.As(r.Err(), &pe))
	require.ErrorIs(t, r.Err(), ErrLengthMismatch)
	require.Equal(t, "@r2", pe.Name)
	require.Equal(t, "III", pe.Qual)

	entries := logs.FilterMessage(ErrLengthMismatch.Error()).All()
	require.Len(t, entries, 1)
	require.Equal(t, "@r2", entries[0].ContextMap()["name"])
	require.Equal(t, "ACGT", entries[0].ContextMap()["sequence"])
}

func TestReaderTruncatedRecord(t *testing.T) {
	r := stringReader(t, "@r1\nACGT\n+\nIIII\n@r2\nACGT\n", true)
	records := readAll(t, r)
	require.Len(t, records, 1)
	require.ErrorIs(t, r.Err(), ErrTruncatedRecord)
}

func TestReaderMissingLastSeparator(t *testing.T) {
	r := stringReader(t, "@r1\nACGT\n+\n@r2\nGGTT", false)
	records := readAll(t, r)
	require.Len(t, records, 2)
	require.Equal(t, "r2", records[1].ID())
	require.Equal(t, "GGTT", records[1].Seq)
	require.Empty(t, records[1].Strand)
	require.Equal(t, "KKKK", records[1].Qual)
	require.NoError(t, r.Err())
}

func TestReaderNoTrailingNewline(t *testing.T) {
	with := readAll(t, stringReader(t, twoReads, true))
	r := stringReader(t, strings.TrimSuffix(twoReads, "\n"), true)
	without := readAll(t, r)
	require.Equal(t, with, without)
	require.True(t, r.NoTrailingNewline())
	require.NoError(t, r.Err())
}

func TestReaderCRLF(t *testing.T) {
	input := strings.ReplaceAll(twoReads, "\n", "\r\n")
	require.Equal(t, readAll(t, stringReader(t, twoReads, true)), readAll(t, stringReader(t, input, true)))
}

func TestReaderChunkSizeIndependence(t *testing.T) {
	input, want := makeFastq(300)
	sizes := []int{1, 2, 3, 7, 64, 151, 4096, len(input), len(input) / 4, DefaultChunkSize}
	for _, size := range sizes {
		got := readAll(t, stringReader(t, input, true, WithChunkSize(size)))
		require.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestReaderEmptyInput(t *testing.T) {
	r := stringReader(t, "", true)
	_, err := r.Read()
	require.Equal(t, io.EOF, err)
	require.NoError(t, r.Err())
}

func TestReaderPlainAndGzipAgree(t *testing.T) {
	input, want := makeFastq(2000)
	plainPath := writeFile(t, "R1.fq", input)
	gzPath := writeGzip(t, "R1.fq.gz", input)

	plain, err := Open(plainPath, true, false, WithChunkSize(1000), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer plain.Close()
	zipped, err := Open(gzPath, true, false, WithChunkSize(1000), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer zipped.Close()

	require.False(t, plain.Compressed())
	require.True(t, zipped.Compressed())

	fromPlain := readAll(t, plain)
	fromZipped := readAll(t, zipped)
	require.Equal(t, want, fromPlain)
	require.Equal(t, fromPlain, fromZipped)

	read, total := plain.Progress()
	require.Equal(t, int64(len(input)), total)
	require.Equal(t, total, read)

	read, total = zipped.Progress()
	require.Positive(t, total)
	require.Positive(t, read)
	require.LessOrEqual(t, read, total)
}

func TestReaderPhred64(t *testing.T) {
	path := writeFile(t, "r.fastq", twoReads)
	r, err := Open(path, true, true, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Read()
	require.NoError(t, err)
	require.True(t, rec.Phred64)
	require.Equal(t, Phred64, rec.Encoding())
	require.Equal(t, Config{Path: path, HasQuality: true, Phred64: true}, r.Config())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/reads.fq", true, false)
	require.Error(t, err)
	_, err = Open("/nonexistent/reads.fq.gz", true, false)
	require.Error(t, err)
}

func TestReaderCloseIsIdempotent(t *testing.T) {
	path := writeFile(t, "r.fq", twoReads)
	r, err := Open(path, true, false)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	_, err = r.Read()
	require.Equal(t, io.EOF, err)
}

func BenchmarkReader(b *testing.B) {
	input, _ := makeFastq(5000)
	b.ReportAllocs()
	b.SetBytes(int64(len(input)))
	for n := 0; n < b.N; n++ {
		r, err := NewSourceReader(Config{HasQuality: true}, NewByteSource(strings.NewReader(input)), WithLogger(zap.NewNop()))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := r.Read(); err != nil {
				break
			}
		}
		r.Close()
	}
}
