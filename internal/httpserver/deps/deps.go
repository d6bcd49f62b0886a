package deps

import (
	"time"

	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/service"
	"github.com/stacknscroll/linkd/internal/store"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	Links         *service.Links   // link operations behind the cache
	Store         store.Repository // backing store, for readiness checks
	CacheLoaded   func() bool      // reports whether the first load completed
	ReloadTrigger chan struct{}    // channel to trigger a manual cache reload
	TrustProxy    bool             // true if running behind a trusted reverse proxy
}
