package replica

import (
	"sort"

	"github.com/drpcorg/propsync/toyqueue"
)

// Subscription is the receiving end of another host's observer stream.
// What arrives is applied to this host; digest reports queued with Verify
// go back the other way.
type Subscription struct {
	host  *Host
	queue *toyqueue.RecordQueue
	out   toyqueue.Feeder
}

func (h *Host) Subscribe() *Subscription {
	q := toyqueue.NewRecordQueue(h.opts.QueueLimit)
	return &Subscription{host: h, queue: q, out: q.Blocking()}
}

// Feed waits for queued reports.
func (s *Subscription) Feed() (toyqueue.Records, error) {
	return s.out.Feed()
}

func (s *Subscription) Drain(recs toyqueue.Records) error {
	return s.host.Drain(recs)
}

func (s *Subscription) Close() error {
	return s.queue.Close()
}

// Verify queues digest reports for ids, or for every entity known here
// when none are given. The other host answers a mismatch with a full
// message.
func (s *Subscription) Verify(ids ...uint64) error {
	if len(ids) == 0 {
		ids = s.host.IDs()
	}
	recs := s.host.Report(ids...)
	if len(recs) == 0 {
		return nil
	}
	return s.queue.Drain(recs)
}

// IDs lists the entities this host holds, ascending.
func (h *Host) IDs() (ids []uint64) {
	h.entities.Range(func(id uint64, _ *Entity) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return
}
