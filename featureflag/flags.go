package featureflag

type Flag string

const (
	// FlagDisableRangeVerification skips the linear scan cross-checking tree
	// range queries.
	FlagDisableRangeVerification Flag = "DISABLE_RANGE_VERIFICATION"

	FlagDisableDebugDump Flag = "DISABLE_DEBUG_DUMP"
)

// Flags lists the known flags.
var Flags = []Flag{
	FlagDisableRangeVerification,
	FlagDisableDebugDump,
}
