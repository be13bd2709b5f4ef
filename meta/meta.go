// meta/meta.go
package meta

import "time"

// TICK is how often a running match is updated, so clocks can fall.
const TICK = 100 * time.Millisecond

// MAX_PLIES caps the length of a self-play match.
const MAX_PLIES = 600

// TIME_CONTROL is the control used when none is configured.
const TIME_CONTROL = "increment:5+3"

// VARIANT is the registry key of the variant played by default.
const VARIANT = "chess:standard"

// STATS_DIR is where CSV match records are written.
const STATS_DIR = "records"
