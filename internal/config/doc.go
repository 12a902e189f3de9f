// Package config provides configuration parsing for vtree.
//
// The configuration is stored in vtree.json (or vtree.yaml) in the working
// directory or one of its parents. This package handles loading, saving, and
// validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "debug": false,
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vtree"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "github.com/vango-dev/vtree"
//	  },
//	  "preview": {
//	    "addr": "localhost:7070",
//	    "tick": "1s",
//	    "scenario": "list"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.NewLogger(os.Stderr)
package config
