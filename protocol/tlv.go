// Protocol format is based on ToyTLV (MIT licence) written by Victor Grishchenko in 2024
// Original project: https://github.com/learn-decentralized-systems/toytlv

/*
Package protocol implements the byte-level framing used around propsync bit
records: entity messages on the wire and snapshot/delta values in the store.

# TLV Record Format

A record is a one letter type, a length and a body. The header takes one of
three shapes, picked by body size:

 1. Tiny (1 byte): ['0'+len], bodies of 0..9 bytes, lowercase type only.
    The type letter is lost and reads back as '0'.
 2. Short (2 bytes): [lowercase type, len], bodies up to 255 bytes.
 3. Long (5 bytes): [uppercase type, len as uint32 little endian].

Record types are the letters A-Z. Passing a lowercase letter to the encoding
functions allows the tiny header.

# Records used by propsync

	E  entity message: I (entity id), L (layout), N (bit count), B (bits)
	X  entity gone: I (entity id)
	V  digest report: I (entity id), H (xxhash of the full message)
	S  stored full snapshot: N (bit count), B (bits)
	D  stored delta: N (bit count), B (bits)

Bit records travel as whole bytes; N tells how many of the trailing bits are
meaningful.

# Parsing

Take/TakeAny are for trusted input and report failures with nil bodies.
TakeWary/TakeAnyWary return ErrIncomplete or ErrBadRecord instead.
*/
package protocol

import (
	"encoding/binary"
	"errors"
)

const CaseBit uint8 = 'a' - 'A'

var (
	ErrIncomplete = errors.New("propsync: incomplete TLV data")
	ErrBadRecord  = errors.New("propsync: bad TLV record format")
)

// ProbeHeader returns the record type ('A'-'Z', '0' for tiny, '-' on
// error, 0 if the header is incomplete), the header length and body length.
func ProbeHeader(data []byte) (lit byte, hdrlen, bodylen int) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	dlit := data[0]
	switch {
	case dlit >= '0' && dlit <= '9':
		lit = '0'
		bodylen = int(dlit - '0')
		hdrlen = 1
	case dlit >= 'a' && dlit <= 'z':
		if len(data) < 2 {
			return
		}
		lit = dlit - CaseBit
		hdrlen = 2
		bodylen = int(data[1])
	case dlit >= 'A' && dlit <= 'Z':
		if len(data) < 5 {
			return
		}
		bl := binary.LittleEndian.Uint32(data[1:5])
		if bl > 0x7fffffff {
			lit = '-'
			return
		}
		lit = dlit
		bodylen = int(bl)
		hdrlen = 5
	default:
		lit = '-'
	}
	return
}

// AppendHeader appends a header for a body of bodylen bytes.
func AppendHeader(into []byte, lit byte, bodylen int) (ret []byte) {
	biglit := lit &^ CaseBit
	if biglit < 'A' || biglit > 'Z' {
		panic("TLV record type is A..Z")
	}
	if bodylen < 10 && (lit&CaseBit) != 0 {
		ret = append(into, byte('0'+bodylen))
	} else if bodylen > 0xff {
		if bodylen > 0x7fffffff {
			panic("oversized TLV record")
		}
		ret = append(into, biglit)
		ret = binary.LittleEndian.AppendUint32(ret, uint32(bodylen))
	} else {
		ret = append(into, lit|CaseBit, byte(bodylen))
	}
	return ret
}

// Take extracts the body of a lit record from trusted data.
// On an incomplete record body is nil and rest is data; on a type mismatch
// both are nil.
func Take(lit byte, data []byte) (body, rest []byte) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data
	}
	if flit != lit && flit != '0' {
		return nil, nil
	}
	body = data[hdrlen : hdrlen+bodylen]
	rest = data[hdrlen+bodylen:]
	return
}

// TakeAny extracts the next record whatever its type.
func TakeAny(data []byte) (lit byte, body, rest []byte) {
	if len(data) == 0 {
		return 0, nil, nil
	}
	lit = data[0] &^ CaseBit
	body, rest = Take(lit, data)
	return
}

// TakeWary is Take for untrusted data.
func TakeWary(lit byte, data []byte) (body, rest []byte, err error) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data, ErrIncomplete
	}
	if flit == '-' || (flit != lit && flit != '0') {
		return nil, nil, ErrBadRecord
	}
	body = data[hdrlen : hdrlen+bodylen]
	rest = data[hdrlen+bodylen:]
	return
}

// TakeAnyWary is TakeAny for untrusted data.
func TakeAnyWary(data []byte) (lit byte, body, rest []byte, err error) {
	if len(data) == 0 {
		return 0, nil, nil, ErrIncomplete
	}
	lit, _, _ = ProbeHeader(data)
	if lit == '-' {
		return lit, nil, nil, ErrBadRecord
	}
	if lit == 0 {
		return 0, nil, data, ErrIncomplete
	}
	body, rest, err = TakeWary(lit, data)
	return
}

func TotalLen(inputs [][]byte) (sum int) {
	for _, input := range inputs {
		sum += len(input)
	}
	return
}

// Append appends a complete record to into.
func Append(into []byte, lit byte, body ...[]byte) (res []byte) {
	res = AppendHeader(into, lit, TotalLen(body))
	for _, b := range body {
		res = append(res, b...)
	}
	return res
}

// Record makes a complete record with the body pieces concatenated.
func Record(lit byte, body ...[]byte) []byte {
	total := TotalLen(body)
	ret := make([]byte, 0, total+5)
	return Append(ret, lit, body...)
}

func Concat(msg ...[]byte) []byte {
	ret := make([]byte, 0, TotalLen(msg))
	for _, b := range msg {
		ret = append(ret, b...)
	}
	return ret
}

// Split cuts a buffer of concatenated records into separate records.
func Split(data []byte) (recs Records, err error) {
	for len(data) > 0 {
		lit, hlen, blen := ProbeHeader(data)
		if lit == '-' {
			return recs, ErrBadRecord
		}
		if lit == 0 || hlen+blen > len(data) {
			return recs, ErrIncomplete
		}
		recs = append(recs, data[:hlen+blen])
		data = data[hlen+blen:]
	}
	return
}
