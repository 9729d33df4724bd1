package replica

import (
	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/protocol"
	"github.com/drpcorg/propsync/toyqueue"
)

// Drain applies messages received from another host. A full message
// creates or overwrites the entity; a delta patches it, and one for an
// entity never seen in full is dropped. Components that fail to decode
// are logged and skipped. The error return is for records that cannot be
// parsed at all.
func (h *Host) Drain(recs toyqueue.Records) error {
	for _, rec := range recs {
		lit, body, _, err := protocol.TakeAnyWary(rec)
		if err != nil {
			return err
		}
		switch lit {
		case 'E':
			msg, err := entity.ParseMessage(rec)
			if err != nil {
				return err
			}
			h.apply(msg)
		case 'X':
			idb, _, err := protocol.TakeWary('I', body)
			if err != nil {
				return err
			}
			h.forget(protocol.UnzipUint64(idb))
		default:
			h.log.Warn("replica: unexpected record", "type", string(lit))
		}
	}
	return nil
}

func (h *Host) apply(msg entity.Message) {
	l, err := h.opts.Layouts.Get(msg.Layout)
	if err != nil {
		h.log.Warn("replica: message for unknown layout", "id", msg.ID, "layout", msg.Layout)
		DecodeErrors.WithLabelValues("unknown").Inc()
		return
	}
	e, ok := h.entities.Load(msg.ID)
	if ok && e.Layout.ID != l.ID {
		h.log.Warn("replica: entity changed layout", "id", msg.ID, "from", e.Layout.ID, "to", l.ID)
		ok = false
	}
	if !ok {
		if !msg.Full() {
			h.log.Debug("replica: delta before snapshot, dropped", "id", msg.ID)
			DecodeErrors.WithLabelValues(l.Name).Inc()
			return
		}
		e = &Entity{ID: msg.ID, Layout: l, comps: l.NewComponents()}
		h.entities.Store(msg.ID, e)
	}

	var framing error
	e.Mutate(func(comps []entity.Component) {
		_, framing = entity.Read(msg.Reader(), comps, func(i int, err error) {
			h.log.Warn("replica: component skipped", "id", msg.ID, "component", i, "err", err)
			DecodeErrors.WithLabelValues(l.Name).Inc()
		})
	})
	if framing != nil {
		h.log.Error("replica: broken message", "id", msg.ID, "err", framing)
		DecodeErrors.WithLabelValues(l.Name).Inc()
		return
	}

	if h.opts.Store == nil {
		return
	}
	if msg.Full() {
		err = h.opts.Store.Put(msg)
	} else {
		err = h.opts.Store.ApplyDelta(msg)
	}
	if err != nil {
		h.log.Error("replica: message not stored", "id", msg.ID, "err", err)
	}
}

func (h *Host) forget(id uint64) {
	e, ok := h.entities.LoadAndDelete(id)
	if !ok {
		return
	}
	if h.opts.Store != nil {
		if err := h.opts.Store.Delete(id, e.Layout.ID); err != nil {
			h.log.Error("replica: snapshot not deleted", "id", id, "err", err)
		}
	}
}

// Report builds digest reports of the given entities for the host they
// came from; unknown ids are left out.
func (h *Host) Report(ids ...uint64) (recs toyqueue.Records) {
	for _, id := range ids {
		if d, err := h.Digest(id); err == nil {
			recs = append(recs, digestReport(id, d))
		}
	}
	return
}
