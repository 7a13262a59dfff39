package service

import "time"

// Clock supplies the current time to services. Injected so sale timestamps,
// number prefixes and report buckets are deterministic in tests.
type Clock func() time.Time
