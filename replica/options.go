package replica

import (
	"log/slog"

	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/snapstore"
	"github.com/drpcorg/propsync/utils"
	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	Logger  utils.Logger
	Layouts *entity.Registry
	// Store, if set, keeps a full snapshot of every entity, hosted or
	// received; observers joining later are primed from it.
	Store *snapstore.Store
	// QueueLimit bounds the records queued per observer. An observer that
	// falls behind is resynchronised with full messages.
	QueueLimit int
	// Registerer gets the replica metrics; nil leaves them unregistered.
	Registerer prometheus.Registerer
}

func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = utils.NewDefaultLogger(slog.LevelInfo)
	}
	if o.Layouts == nil {
		o.Layouts = entity.NewRegistry()
	}
	if o.QueueLimit == 0 {
		o.QueueLimit = 1 << 16
	}
}
