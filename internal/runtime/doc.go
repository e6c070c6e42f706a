// Package runtime wires config, the snowflake generator, the optional
// issuance ledger and metrics into a single-node tixid instance.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	id, _ := rt.Generator().NextID()
package runtime
