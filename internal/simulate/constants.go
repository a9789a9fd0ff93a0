package simulate

import "time"

// Defaults applied by Config.withDefaults.
const (
	DefaultSessions     = 100
	DefaultUsers        = 10
	DefaultTimeout      = 10 * time.Second
	DefaultReanswerRate = 0.2
	DefaultRetreatRate  = 0.1
	DefaultUserPrefix   = "sim-user-"
)

const (
	percentageMultiplier = 100
	historyPollInterval  = 20 * time.Millisecond
	historyPollAttempts  = 50
)
