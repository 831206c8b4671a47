package walk

// chunkGrowth is the factor applied to the emission threshold after each
// flush. The first flush happens at the base size so early results reach the
// consumer quickly; later flushes wait for larger batches to keep delivery
// overhead low on big trees.
const chunkGrowth = 10

// Chunker coalesces walker batches into consumer-sized emissions. It is not
// safe for concurrent use.
type Chunker struct {
	threshold int
	max       int
	buf       []Entry
	sink      func([]Entry) error
}

// NewChunker returns a chunker whose first emission holds exactly base
// entries. Each flush raises the threshold by chunkGrowth, capped at
// base*chunkGrowth.
func NewChunker(base int, sink func([]Entry) error) *Chunker {
	if base <= 0 {
		base = 1
	}
	return &Chunker{
		threshold: base,
		max:       base * chunkGrowth,
		sink:      sink,
	}
}

// Add buffers entries and emits threshold-sized batches as long as enough
// are buffered. The sink owns every slice it receives.
func (c *Chunker) Add(entries []Entry) error {
	c.buf = append(c.buf, entries...)
	for len(c.buf) >= c.threshold {
		out := make([]Entry, c.threshold)
		copy(out, c.buf)
		c.buf = c.buf[:copy(c.buf, c.buf[c.threshold:])]
		if err := c.sink(out); err != nil {
			return err
		}
		c.grow()
	}
	return nil
}

// Flush emits whatever is buffered without waiting for the threshold.
func (c *Chunker) Flush() error {
	if len(c.buf) == 0 {
		return nil
	}
	out := c.buf
	c.buf = nil
	return c.sink(out)
}

func (c *Chunker) grow() {
	c.threshold *= chunkGrowth
	if c.threshold > c.max {
		c.threshold = c.max
	}
}
