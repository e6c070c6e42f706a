// Package pebblestore is a thin wrapper around Pebble with an fsync policy,
// batches, a put-if-absent helper and a small metrics hook. It backs the
// issuance ledger.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	err = db.SetIfAbsent(ctx, []byte("num/1"),
//	    [2][]byte{[]byte("num/1"), []byte("id")},
//	    [2][]byte{[]byte("iss/id/1"), rec},
//	)
//	if errors.Is(err, pebblestore.ErrExists) { /* duplicate */ }
package pebblestore
