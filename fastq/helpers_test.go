package fastq

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bases = "ACGTN"

// makeFastq builds n records of varying length and their text form.
func makeFastq(n int) (string, []*Record) {
	var sb strings.Builder
	records := make([]*Record, 0, n)
	for i := 0; i < n; i++ {
		length := 1 + (i*37)%151
		s := make([]byte, length)
		q := make([]byte, length)
		for j := range s {
			s[j] = bases[(i+j)%len(bases)]
			q[j] = byte('!' + (i*j)%41)
		}
		rec := &Record{
			Name:   fmt.Sprintf("@read%d/%d extra:%d", i, 1+i%2, i*3),
			Seq:    string(s),
			Strand: "+",
			Qual:   string(q),
		}
		records = append(records, rec)
		fmt.Fprintf(&sb, "%s\n%s\n%s\n%s\n", rec.Name, rec.Seq, rec.Strand, rec.Qual)
	}
	return sb.String(), records
}

func stringReader(t *testing.T, input string, hasQuality bool, opts ...Option) *Reader {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	r, err := NewSourceReader(Config{Path: "memory", HasQuality: hasQuality}, NewByteSource(strings.NewReader(input)), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func readAll(t *testing.T, r *Reader) []*Record {
	t.Helper()
	var out []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeGzip(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, gzipBytes(t, content), 0o644))
	return path
}

// feedStdin replaces os.Stdin with a pipe carrying content.
func feedStdin(t *testing.T, content []byte) {
	t.Helper()
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	go func() {
		pw.Write(content)
		pw.Close()
	}()
	stdin := os.Stdin
	os.Stdin = pr
	t.Cleanup(func() {
		os.Stdin = stdin
		pr.Close()
	})
}
