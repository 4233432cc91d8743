package domain

// Default policy values, used when no policy row has been configured yet.
const (
	DefaultHoldTTLMinutes         = 15
	DefaultRescheduleLockHours    = 3
	DefaultCancelLockHours        = 3
	DefaultLeadTimeMinutes        = 0
	DefaultFutureWindowDays       = 60
	DefaultSlotGridMinutes        = 15
	DefaultOnlineDiscountPercent  = 0
	DefaultOnlineEnabled          = false
	DefaultSettingsCacheTTLSecs   = 60
	DefaultMaxReschedules         = 3
)

// DateFormat is the calendar-day wire format, YYYY-MM-DD.
const DateFormat = "2006-01-02"
