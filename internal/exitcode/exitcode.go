package exitcode

const (
	Success          = 0
	UsageError       = 1
	InputError       = 2
	PricingDiff      = 3
	ValidationFailed = 4
)
