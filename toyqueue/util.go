package toyqueue

// Relay moves one batch from feeder to drainer.
func Relay(feeder Feeder, drainer Drainer) error {
	recs, err := feeder.Feed()
	if len(recs) > 0 {
		if derr := drainer.Drain(recs); err == nil {
			err = derr
		}
	}
	return err
}

// Pump relays until either side fails.
func Pump(feeder Feeder, drainer Drainer) (err error) {
	for err == nil {
		err = Relay(feeder, drainer)
	}
	return
}
