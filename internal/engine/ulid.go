package engine

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Run ids are ULIDs: 26 Crockford Base32 characters over a 48-bit millisecond
// timestamp plus 80 bits of randomness, so ids sort by creation time. A
// sequence counter replaces the first two random bytes to keep ids issued in
// the same millisecond unique.

const runIDAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var runIDGen struct {
	sync.Mutex
	ms  uint64
	seq uint16
}

func newRunID() string {
	runIDGen.Lock()
	ms := uint64(time.Now().UnixMilli())
	if ms == runIDGen.ms {
		runIDGen.seq++
	} else {
		runIDGen.ms = ms
		runIDGen.seq = 0
	}
	seq := runIDGen.seq
	runIDGen.Unlock()

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ms<<16)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], seq)

	// 128 bits consumed five at a time from the low end; 26 characters
	// cover 130 bits, so the first holds only three significant bits.
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])
	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = runIDAlphabet[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
