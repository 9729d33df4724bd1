package toyqueue

import (
	"io"

	"github.com/drpcorg/propsync/protocol"
)

// Records is a batch of framed entity messages.
type Records = protocol.Records

type Feeder interface {
	// Feed returns the records queued so far. Like io.Reader it may
	// return records together with an error.
	Feed() (recs Records, err error)
}

type FeedCloser interface {
	Feeder
	io.Closer
}

type Drainer interface {
	Drain(recs Records) error
}

type DrainCloser interface {
	Drainer
	io.Closer
}

type FeedDrainCloser interface {
	Feeder
	Drainer
	io.Closer
}
