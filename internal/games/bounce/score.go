package bounce

// Counter is a run's score. It starts at zero and only goes up.
type Counter struct {
	value int
	subs  []func(int)
}

// Value returns the current score.
func (c *Counter) Value() int {
	return c.value
}

// Increment adds one point, notifies subscribers and returns the new score.
func (c *Counter) Increment() int {
	c.value++
	for _, fn := range c.subs {
		fn(c.value)
	}
	return c.value
}

// Subscribe registers fn to be called with every new score.
func (c *Counter) Subscribe(fn func(int)) {
	c.subs = append(c.subs, fn)
}
