package scheduler

import (
	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

// Disabled turns a schedule off.
const Disabled = "off"

type Config struct {
	DispatchSchedule string
	DigestSchedule   string
}

func LoadConfig() Config {
	return Config{
		DispatchSchedule: env.String("DISPATCH_SCHEDULE", "@every 1m"),
		DigestSchedule:   env.String("DIGEST_SCHEDULE", "0 8 * * *"),
	}
}

func Enabled(spec string) bool {
	return spec != "" && spec != Disabled
}
