package intcode

import "golang.org/x/exp/slices"

// compactThreshold is the number of consumed inputs kept before the queue drops them.
const compactThreshold = 4096

// InputQueue is the pending input of a core. Values are consumed in order;
// once it is exhausted the last value is repeated unless the core suspends.
type InputQueue struct {
	values []int64
	cursor int
}

func NewInputQueue(values ...int64) *InputQueue {
	return &InputQueue{values: slices.Clone(values)}
}

func (q *InputQueue) Push(values ...int64) {
	q.values = append(q.values, values...)
}

// Replace drops everything not yet consumed and queues values instead.
func (q *InputQueue) Replace(values ...int64) {
	q.values = append(q.values[:0:0], values...)
	q.cursor = 0
}

func (q *InputQueue) Exhausted() bool {
	return q.cursor >= len(q.values)
}

// Pending is the number of values not yet consumed.
func (q *InputQueue) Pending() int {
	return len(q.values) - q.cursor
}

// Last returns the most recently queued value.
func (q *InputQueue) Last() (int64, bool) {
	if len(q.values) == 0 {
		return 0, false
	}
	return q.values[len(q.values)-1], true
}

// Next consumes the next value. When the queue is exhausted it returns the
// last queued value (0 for a queue that never held one) and false.
func (q *InputQueue) Next() (int64, bool) {
	if q.Exhausted() {
		v, _ := q.Last()
		return v, false
	}
	v := q.values[q.cursor]
	q.cursor++
	if q.cursor >= compactThreshold {
		q.compact()
	}
	return v, true
}

// DrainedTo reports whether at most one value is pending and the queue ends with marker.
func (q *InputQueue) DrainedTo(marker int64) bool {
	last, ok := q.Last()
	return ok && last == marker && q.Pending() <= 1
}

// Values returns a copy of the unconsumed values.
func (q *InputQueue) Values() []int64 {
	return slices.Clone(q.values[q.cursor:])
}

func (q *InputQueue) compact() {
	// keep the last value so an exhausted queue can still repeat it
	k := min(q.cursor, len(q.values)-1)
	q.values = append(q.values[:0], q.values[k:]...)
	q.cursor -= k
}

func (q *InputQueue) clone() InputQueue {
	return InputQueue{values: slices.Clone(q.values), cursor: q.cursor}
}

// Action is returned by an OutputFunc and applied to the core after the callback returns.
type Action struct {
	// Append is queued after the pending input.
	Append []int64
	// Replace drops the pending input before Append is queued.
	Replace bool
	// Stop returns control to the caller of Run; the core stays resumable.
	Stop bool
}

// OutputFunc observes one output value.
type OutputFunc func(value int64) Action

// Continue is the Action that changes nothing.
func Continue() Action {
	return Action{}
}

// Feed queues values after the pending input.
func Feed(values ...int64) Action {
	return Action{Append: values}
}

// Stop ends Run after the current output.
func Stop() Action {
	return Action{Stop: true}
}
