package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatureFlag(t *testing.T) {
	f := New([]string{"DISABLE_DEBUG_DUMP"})

	t.Run("run if enabled", func(t *testing.T) {
		var dumpDisabled bool
		f.IfSet(FlagDisableDebugDump, func() {
			dumpDisabled = true
		})
		require.True(t, dumpDisabled)

		var verificationDisabled bool
		f.IfSet(FlagDisableRangeVerification, func() {
			verificationDisabled = true
		})
		require.False(t, verificationDisabled)
	})

	t.Run("run if disabled", func(t *testing.T) {
		var dumpEnabled bool
		f.IfNotSet(FlagDisableDebugDump, func() {
			dumpEnabled = true
		})
		require.False(t, dumpEnabled)

		var verificationEnabled bool
		f.IfNotSet(FlagDisableRangeVerification, func() {
			verificationEnabled = true
		})
		require.True(t, verificationEnabled)
	})

	t.Run("nil flags have nothing set", func(t *testing.T) {
		var f FeatureFlag
		require.False(t, f.IsSet(FlagDisableDebugDump))
		require.Empty(t, f.Unknown())
	})
}

func TestNew(t *testing.T) {
	f := New([]string{" disable_range_verification ", "", "SOMETHING_ELSE", "ANOTHER"})
	require.Len(t, f, 3)
	require.True(t, f.IsSet(FlagDisableRangeVerification))
	require.Equal(t, []Flag{"ANOTHER", "SOMETHING_ELSE"}, f.Unknown())
}
