package datapublic

import (
	"context"

	"github.com/covidactnow/datapublic/pkg/globalstats"
	"github.com/covidactnow/datapublic/pkg/version"
)

type Config struct {
	Stats globalstats.Config
}

func init() {
	// Enable globalstats by default.
	globalstats.Initialize(context.Background(), globalstats.Config{Version: version.Get()})
}

// InitializeWithConfig sets up global state such as the data quality
// counters kept by globalstats.
func InitializeWithConfig(ctx context.Context, cfg Config) {
	if cfg.Stats.Version == "" {
		cfg.Stats.Version = version.Get()
	}
	globalstats.Initialize(ctx, cfg.Stats)
}
