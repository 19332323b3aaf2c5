package fastq

import "strings"

var fastqSuffixes = []string{".fastq", ".fq", ".fasta", ".fa"}

// IsZipFastq reports whether name looks like a gzip compressed FASTQ/FASTA file.
func IsZipFastq(name string) bool {
	return strings.HasSuffix(name, ".gz") && IsFastq(strings.TrimSuffix(name, ".gz"))
}

// IsFastq reports whether name looks like an uncompressed FASTQ/FASTA file.
func IsFastq(name string) bool {
	for _, suffix := range fastqSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
