package ledger

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/fxamacker/cbor/v2"

	"github.com/rzbill/tixid/pkg/snowflake"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload)
//
// The header is the 8-byte big-endian issuance wall time, the payload is the
// CBOR-encoded Entry.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errCorrupt = errors.New("ledger: corrupt record")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// Entry is one issued ID.
type Entry struct {
	ID         snowflake.ID   `cbor:"1,keyasint" json:"id"`
	Kind       snowflake.Kind `cbor:"2,keyasint" json:"kind"`
	IssuedAtMs int64          `cbor:"3,keyasint" json:"issuedAtMs"`
	RequestID  string         `cbor:"4,keyasint,omitempty" json:"requestId,omitempty"`
}

// Number renders the entry the way it was handed out.
func (e Entry) Number() string { return snowflake.Format(e.Kind, e.ID) }

// Parts decomposes the entry's ID.
func (e Entry) Parts() snowflake.Parts { return snowflake.Decompose(e.ID) }

func encodeEntry(e Entry) ([]byte, error) {
	payload, err := encMode.Marshal(e)
	if err != nil {
		return nil, err
	}
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(e.IssuedAtMs))
	return encodeRecord(header[:], payload), nil
}

func decodeEntry(b []byte) (Entry, error) {
	_, payload, ok := decodeRecord(b)
	if !ok {
		return Entry{}, errCorrupt
	}
	var e Entry
	if err := decMode.Unmarshal(payload, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func encodeRecord(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

func decodeRecord(b []byte) (header, payload []byte, ok bool) {
	if len(b) < 1+4 {
		return nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 {
		return nil, nil, false
	}
	if uint64(n)+hlen+4 > uint64(len(b)) {
		return nil, nil, false
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return nil, nil, false
	}
	return header, payload, true
}
