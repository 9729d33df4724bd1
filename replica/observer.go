package replica

import (
	"sync/atomic"

	"github.com/drpcorg/propsync/protocol"
	"github.com/drpcorg/propsync/toyqueue"
	"github.com/google/uuid"
)

// Observer is one receiver of a host's messages, typically a connection.
// Feed hands out what was queued for it; Drain takes what it sends back.
type Observer struct {
	ID uuid.UUID

	host  *Host
	queue *toyqueue.RecordQueue
	// stale observers get full messages instead of the next deltas
	stale atomic.Bool
	// despawns a stale observer missed; h.tick guards it
	gone []uint64
}

// Feed returns the queued records without waiting; with nothing queued
// it returns toyqueue.ErrWouldBlock.
func (o *Observer) Feed() (toyqueue.Records, error) {
	return o.queue.Feed()
}

// Blocking is a Feed that waits for records, for connection write loops.
func (o *Observer) Blocking() toyqueue.Feeder {
	return o.queue.Blocking()
}

// Drain handles records coming back from the observer: digest reports are
// verified, anything else is applied like Host.Drain.
func (o *Observer) Drain(recs toyqueue.Records) error {
	var rest toyqueue.Records
	for _, rec := range recs {
		lit, body, _, err := protocol.TakeAnyWary(rec)
		if err != nil {
			return err
		}
		if lit != 'V' {
			rest = append(rest, rec)
			continue
		}
		id, digest, err := parseDigestReport(body)
		if err != nil {
			return err
		}
		if _, err := o.host.Verify(o, id, digest); err != nil {
			o.host.log.Warn("replica: unverifiable report", "observer", o.ID, "id", id, "err", err)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	return o.host.Drain(rest)
}

func (o *Observer) Close() error {
	o.host.Leave(o)
	return nil
}

func digestReport(id, digest uint64) []byte {
	return protocol.Record('V',
		protocol.Record('I', protocol.ZipUint64(id)),
		protocol.Record('H', protocol.ZipUint64(digest)),
	)
}

func parseDigestReport(body []byte) (id, digest uint64, err error) {
	idb, rest, err := protocol.TakeWary('I', body)
	if err != nil {
		return
	}
	hb, _, err := protocol.TakeWary('H', rest)
	if err != nil {
		return
	}
	if len(idb) > 8 || len(hb) > 8 {
		return 0, 0, protocol.ErrBadRecord
	}
	return protocol.UnzipUint64(idb), protocol.UnzipUint64(hb), nil
}

// Link is the observer as a connection handler: its Feed waits for
// records.
func (o *Observer) Link() toyqueue.FeedDrainCloser {
	return link{Observer: o, feeder: o.queue.Blocking()}
}

type link struct {
	*Observer
	feeder toyqueue.Feeder
}

func (l link) Feed() (toyqueue.Records, error) {
	return l.feeder.Feed()
}
