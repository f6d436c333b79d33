package spatial

import "github.com/aukilabs/go-tooling/pkg/logs"

// Visitor is called with each entry a range query explores. A nil Visitor is
// valid and does nothing.
type Visitor[X, Y, V any] func(Entry[X, Y, V])

func (v Visitor[X, Y, V]) call(e Entry[X, Y, V]) {
	if v != nil {
		v(e)
	}
}

// Counter counts explored entries.
type Counter struct {
	count int
}

func (c *Counter) Count() int {
	return c.count
}

func (c *Counter) Reset() {
	c.count = 0
}

// CountVisits returns a Visitor that increments c for each explored entry.
func CountVisits[X, Y, V any](c *Counter) Visitor[X, Y, V] {
	return func(Entry[X, Y, V]) {
		c.count++
	}
}

// LogVisits returns a Visitor that logs each explored key at debug level.
func LogVisits[X, Y, V any]() Visitor[X, Y, V] {
	return func(e Entry[X, Y, V]) {
		logs.WithTag("key", e.Key().String()).Debug("visit")
	}
}

// Chain returns a Visitor calling each of visitors in order.
func Chain[X, Y, V any](visitors ...Visitor[X, Y, V]) Visitor[X, Y, V] {
	return func(e Entry[X, Y, V]) {
		for _, v := range visitors {
			v.call(e)
		}
	}
}
