package protocol

// Records is a batch of TLV records, the unit handed to queues and stores.
type Records [][]byte

func (recs Records) TotalLen() (total int64) {
	for _, r := range recs {
		total += int64(len(r))
	}
	return
}
