// Package httpserver provides the REST gateway for tixid: allocation,
// decode, ledger queries, health and Prometheus metrics. Responses use a
// {success, message, data, timestamp, errorCode} envelope.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
