package processor

// Sequencer hands out module indices. The index only moves forward after a
// module has actually been written.
type Sequencer interface {
	Current() int
	Advance()
}

// Counter is the default Sequencer. Like the Processor that owns it, it is
// used from one goroutine only.
type Counter struct {
	next int
}

// NewCounter creates a sequencer whose first index is start
func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

// Current returns the index the next module will use
func (c *Counter) Current() int {
	return c.next
}

// Advance moves to the next index
func (c *Counter) Advance() {
	c.next++
}
