package featureflag

import (
	"slices"
	"strings"
)

// FeatureFlag is the set of flags enabled on the server.
type FeatureFlag map[Flag]struct{}

// New returns the feature flags named in flags. Names are case insensitive and
// surrounding spaces are ignored.
func New(flags []string) FeatureFlag {
	featureFlag := make(FeatureFlag, len(flags))
	for _, f := range flags {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		featureFlag[Flag(f)] = struct{}{}
	}
	return featureFlag
}

func (f FeatureFlag) IsSet(flag Flag) bool {
	_, ok := f[flag]
	return ok
}

// IfSet runs do when flag is set.
func (f FeatureFlag) IfSet(flag Flag, do func()) {
	if f.IsSet(flag) {
		do()
	}
}

// IfNotSet runs do when flag is not set.
func (f FeatureFlag) IfNotSet(flag Flag, do func()) {
	if !f.IsSet(flag) {
		do()
	}
}

// Unknown returns the sorted flags that the server does not know about.
func (f FeatureFlag) Unknown() []Flag {
	var unknown []Flag
	for flag := range f {
		if !slices.Contains(Flags, flag) {
			unknown = append(unknown, flag)
		}
	}
	slices.Sort(unknown)
	return unknown
}
