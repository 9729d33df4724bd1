package entity

import (
	goerrors "errors"

	"github.com/drpcorg/propsync/bitstream"
	"github.com/pkg/errors"
)

var (
	ErrNotFull        = goerrors.New("propsync: baseline is not a full message")
	ErrMissingPart    = goerrors.New("propsync: full message lacks a component")
	ErrLayoutMismatch = goerrors.New("propsync: components do not match the layout")
)

// WriteFull writes every component in the full shape. Change trackers
// are not touched, so pending deltas still go out on the next flush.
func WriteFull(w *bitstream.Writer, comps []Component) {
	var part bitstream.Writer
	w.Write1()
	for _, c := range comps {
		part.Reset()
		c.WriteSnapshot(&part)
		writePart(w, &part)
	}
}

// WriteDelta writes the changed components and clears their trackers. If
// no component changed it writes nothing and returns false.
func WriteDelta(w *bitstream.Writer, comps []Component) bool {
	var msg, part bitstream.Writer
	msg.Write0()
	changed := false
	for _, c := range comps {
		part.Reset()
		if c.WriteDelta(false, &part) {
			writePart(&msg, &part)
			changed = true
		} else {
			msg.Write0()
		}
	}
	if !changed {
		return false
	}
	_ = w.WriteFrom(msg.Reader(), msg.BitLen())
	return true
}

func writePart(w, part *bitstream.Writer) {
	w.Write1()
	w.WriteUint(uint64(part.BitLen()))
	_ = w.WriteFrom(part.Reader(), part.BitLen())
}

// readPart returns a reader over the next component payload, nil if the
// component is absent.
func readPart(r *bitstream.Reader) (*bitstream.Reader, error) {
	present, err := r.ReadBit()
	if err != nil || !present {
		return nil, err
	}
	n, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, bitstream.ErrShortRead
	}
	return r.Sub(int(n))
}

// Read applies a message to comps. A component that fails to decode is
// reported to skipped and the rest of the message is still applied; the
// returned error means the framing itself is broken.
func Read(r *bitstream.Reader, comps []Component, skipped func(i int, err error)) (full bool, err error) {
	if full, err = r.ReadBit(); err != nil {
		return
	}
	for i, c := range comps {
		part, err := readPart(r)
		if err != nil {
			return full, errors.Wrapf(err, "component %d", i)
		}
		if part == nil {
			if full {
				return full, errors.Wrapf(ErrMissingPart, "component %d", i)
			}
			continue
		}
		if full {
			err = c.ReadSnapshot(part)
		} else {
			_, err = c.ReadDelta(part, false)
		}
		if err != nil && skipped != nil {
			skipped(i, err)
		}
	}
	return
}

// Merge writes into result the full message obtained by applying the
// message delta to the full message baseline. A full delta replaces the
// baseline. Component payloads are merged with props.Schema.Merge, so no
// field value is decoded except text.
func Merge(l *Layout, result *bitstream.Writer, baseline, delta *bitstream.Reader) error {
	full, err := baseline.ReadBit()
	if err != nil {
		return err
	}
	if !full {
		return ErrNotFull
	}
	dfull, err := delta.ReadBit()
	if err != nil {
		return err
	}
	result.Write1()
	if dfull {
		return result.WriteFrom(delta, delta.Remaining())
	}
	var merged bitstream.Writer
	for i, s := range l.Components {
		base, err := readPart(baseline)
		if err == nil && base == nil {
			err = ErrMissingPart
		}
		if err != nil {
			return errors.Wrapf(err, "baseline component %d", i)
		}
		patch, err := readPart(delta)
		if err != nil {
			return errors.Wrapf(err, "delta component %d", i)
		}
		if patch == nil {
			result.Write1()
			result.WriteUint(uint64(base.Remaining()))
			_ = result.WriteFrom(base, base.Remaining())
			continue
		}
		merged.Reset()
		if err := s.Merge(&merged, base, patch); err != nil {
			return errors.Wrapf(err, "component %d", i)
		}
		writePart(result, &merged)
	}
	return nil
}

// Check reports whether comps have the layout's schemas.
func (l *Layout) Check(comps []Component) error {
	if len(comps) != len(l.Components) {
		return ErrLayoutMismatch
	}
	for i, c := range comps {
		if !c.Schema().Equal(l.Components[i]) {
			return errors.Wrapf(ErrLayoutMismatch, "component %d", i)
		}
	}
	return nil
}
