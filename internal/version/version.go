package version

import (
	"runtime"
	"time"
)

// Set at build time through -ldflags "-X ...".
var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // short commit hash
	BuildDate = time.Now().Format(time.RFC3339) // RFC3339 build timestamp
	GoVersion = runtime.Version()
)
