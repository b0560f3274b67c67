package memstore

// segQueue is a segmented FIFO queue of frame pointers. Ported from
// the go-amqp internal segmented queue: new segments are allocated
// once the current tail segment fills, and fully-drained segments are
// left in the chain rather than compacted, trading a little memory for
// enqueue/dequeue with no copying. Both operations walk the segment
// chain, so their cost grows with the number of segments.
type segQueue[T any] struct {
	next  *segQueue[T]
	items []*T
	head  int
	tail  int
}

// newSegQueue creates a new instance of segQueue[T] with the given
// per-segment size.
func newSegQueue[T any](size int) *segQueue[T] {
	return &segQueue[T]{
		items: make([]*T, size),
	}
}

// enqueue adds item to the end of the queue, allocating a new segment
// if the current tail segment is full.
func (q *segQueue[T]) enqueue(item *T) {
	cur := q
	for {
		if cur.next != nil {
			cur = cur.next
			continue
		}

		if cur.tail < len(cur.items) {
			cur.items[cur.tail] = item
			cur.tail++
			return
		}

		break
	}

	cur.next = &segQueue[T]{
		items: make([]*T, len(cur.items)),
	}
	cur.next.enqueue(item)
}

// dequeue removes and returns the item at the front of the queue, or
// nil if the queue is empty.
func (q *segQueue[T]) dequeue() *T {
	if q.head == q.tail {
		if q.next != nil {
			return q.next.dequeue()
		}
		return nil
	}

	item := q.items[q.head]
	q.head++
	if q.head == q.tail {
		q.head, q.tail = 0, 0
	}

	return item
}

// len returns the total count of enqueued items across all segments.
func (q *segQueue[T]) len() int {
	var size int
	for cur := q; cur != nil; cur = cur.next {
		size += cur.tail - cur.head
	}
	return size
}
