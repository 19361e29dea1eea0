// Package config loads the configuration of the book page server.
//
// Configuration is read from bookpage.json, then overridden from the
// environment (BOOKPAGE_* variables, parsed with caarlos0/env), then by
// command line flags in cmd/bookpage.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "basePath": "/"
//	  },
//	  "site": {
//	    "preorderForm": true,
//	    "waitlistDelay": "1s"
//	  },
//	  "session": {
//	    "idleTimeout": "30m",
//	    "maxSessions": 10000,
//	    "eviction": "oldest"
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "export": {
//	    "output": "dist",
//	    "basePath": "/Patagonia-Pages/",
//	    "bucket": "my-site-bucket"
//	  }
//	}
//
// Nested fields map to variables by joining the prefixes, for example
// BOOKPAGE_SESSION_IDLE_TIMEOUT=10m. GITHUB_PAGES=true turns the
// pre-order form off, like the static hosting build.
//
// # Usage
//
//	cfg, err := config.Resolve(flagPath, ".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
