package toyqueue

import (
	"errors"
	"sync"
)

var (
	ErrWouldBlock = errors.New("propsync: the queue is over capacity")
	ErrClosed     = errors.New("propsync: queue is closed")
)

// RecordQueue is a bounded batch queue. Limit is the number of records it
// holds; a closed queue has Limit 0. Drain and Feed never block, see
// Blocking for the waiting flavour.
type RecordQueue struct {
	recs  Records
	lock  sync.Mutex
	cond  sync.Cond
	Limit int
}

func NewRecordQueue(limit int) *RecordQueue {
	q := &RecordQueue{Limit: limit}
	q.cond.L = &q.lock
	return q
}

// Drain queues all of recs or none of them.
func (q *RecordQueue) Drain(recs Records) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.Limit == 0 {
		return ErrClosed
	}
	if len(q.recs)+len(recs) > q.Limit {
		return ErrWouldBlock
	}
	was0 := len(q.recs) == 0
	q.recs = append(q.recs, recs...)
	if was0 && q.cond.L != nil {
		q.cond.Broadcast()
	}
	return nil
}

// Close drops nothing: records already queued can still be fed.
func (q *RecordQueue) Close() error {
	q.lock.Lock()
	q.Limit = 0
	if q.cond.L != nil {
		q.cond.Broadcast()
	}
	q.lock.Unlock()
	return nil
}

func (q *RecordQueue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.recs)
}

// Replace swaps everything queued for recs. A replacement is a complete
// batch, so it is not held to Limit; a closed queue refuses it.
func (q *RecordQueue) Replace(recs Records) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.Limit == 0 {
		return ErrClosed
	}
	q.recs = append(Records(nil), recs...)
	if q.cond.L != nil {
		q.cond.Broadcast()
	}
	return nil
}

func (q *RecordQueue) Feed() (recs Records, err error) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.recs) == 0 {
		if q.Limit == 0 {
			return nil, ErrClosed
		}
		return nil, ErrWouldBlock
	}
	recs = q.recs
	q.recs = nil
	if q.cond.L != nil {
		q.cond.Broadcast()
	}
	return
}

// Blocking returns a view whose Feed waits for records and whose Drain
// waits for room.
func (q *RecordQueue) Blocking() FeedDrainCloser {
	q.lock.Lock()
	if q.cond.L == nil {
		q.cond.L = &q.lock
	}
	q.lock.Unlock()
	return &blockingRecordQueue{q}
}

type blockingRecordQueue struct {
	queue *RecordQueue
}

func (bq *blockingRecordQueue) Close() error {
	return bq.queue.Close()
}

func (bq *blockingRecordQueue) Drain(recs Records) error {
	q := bq.queue
	q.lock.Lock()
	defer q.lock.Unlock()
	for len(recs) > 0 {
		was0 := len(q.recs) == 0
		for q.Limit <= len(q.recs) {
			if q.Limit == 0 {
				return ErrClosed
			}
			q.cond.Wait()
		}
		n := min(q.Limit-len(q.recs), len(recs))
		q.recs = append(q.recs, recs[:n]...)
		recs = recs[n:]
		if was0 {
			q.cond.Broadcast()
		}
	}
	return nil
}

func (bq *blockingRecordQueue) Feed() (recs Records, err error) {
	q := bq.queue
	q.lock.Lock()
	defer q.lock.Unlock()
	for len(q.recs) == 0 {
		if q.Limit == 0 {
			return nil, ErrClosed
		}
		q.cond.Wait()
	}
	recs = q.recs
	q.recs = nil
	q.cond.Broadcast()
	return
}
