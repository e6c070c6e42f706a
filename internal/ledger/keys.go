package ledger

import (
	"encoding/binary"

	"github.com/rzbill/tixid/pkg/snowflake"
)

var (
	issPrefix = []byte("iss/")
	numPrefix = []byte("num/")
	sep       = byte('/')
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyIssuancePrefix returns the prefix shared by every issuance of kind.
func KeyIssuancePrefix(kind snowflake.Kind) []byte {
	k := make([]byte, 0, len(issPrefix)+len(kind)+1)
	k = append(k, issPrefix...)
	k = append(k, kind...)
	k = append(k, sep)
	return k
}

// KeyIssuance builds the issuance key for id.
func KeyIssuance(kind snowflake.Kind, id snowflake.ID) []byte {
	return appendBE8(KeyIssuancePrefix(kind), uint64(id))
}

// KeyNumber builds the kind-index key for id.
func KeyNumber(id snowflake.ID) []byte {
	k := make([]byte, 0, len(numPrefix)+8)
	k = append(k, numPrefix...)
	return appendBE8(k, uint64(id))
}

// idFromKey reads the trailing big-endian id of an issuance or number key.
func idFromKey(k []byte) snowflake.ID {
	if len(k) < 8 {
		return 0
	}
	return snowflake.ID(binary.BigEndian.Uint64(k[len(k)-8:]))
}
