// Package config provides loading and environment overlay for tixid runtime
// configuration. It exposes a Default() baseline (worker 1, datacenter 1),
// JSON/YAML file loading and a TIXID_* environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/tixid.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	if err := config.FromEnv(&cfg); err != nil {
//	    return err
//	}
//	rt, _ := runtime.Open(runtime.Options{DataDir: "/var/lib/tixid", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
package config
