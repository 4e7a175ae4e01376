package errors

import "errors"

// Collection is a thread-unsafe utility for accumulating multiple errors.
// It is used wherever the codebase must report every failure in one pass
// instead of stopping at the first one, e.g. lifecycle definition validation
// and publish-requirement checks.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// Messages returns the message of every collected error, in insertion order.
// This is the bridge between error accumulation and the human-readable
// reason lists surfaced by lifecycle validators.
func (c *Collection) Messages() []string {
	if len(c.errors) == 0 {
		return nil
	}

	msgs := make([]string, len(c.errors))
	for i, err := range c.errors {
		msgs[i] = err.Error()
	}

	return msgs
}

// GetError returns the collected errors as a single error: nil if the
// collection is empty, the error itself for a single entry, or a joined
// error (errors.Join) for multiple entries.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
