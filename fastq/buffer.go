package fastq

// DefaultChunkSize is how much is pulled from a ByteSource per refill.
const DefaultChunkSize = 1 << 20

// chunkBuffer holds one chunk of the input. n is the number of valid bytes
// and pos the number already handed to the line scanner.
type chunkBuffer struct {
	src ByteSource
	buf []byte
	n   int
	pos int

	// truncatedTail is set when the input does not end with a line feed.
	truncatedTail bool
}

func newChunkBuffer(src ByteSource, size int) *chunkBuffer {
	return &chunkBuffer{
		src: src,
		buf: make([]byte, size),
	}
}

func (c *chunkBuffer) full() bool { return c.n == len(c.buf) }

func (c *chunkBuffer) refill() error {
	wasFull := c.full()
	var last byte
	if c.n > 0 {
		last = c.buf[c.n-1]
	}

	n, err := c.src.Fill(c.buf)
	c.n, c.pos = n, 0

	switch {
	case n > 0 && n < len(c.buf):
		c.truncatedTail = c.buf[n-1] != '\n'
	case n == 0 && wasFull:
		// The input ended exactly on a chunk boundary.
		c.truncatedTail = last != '\n'
	}
	return err
}
