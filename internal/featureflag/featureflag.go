// Package featureflag holds the process-wide feature toggles.
//
// Flags are resolved once at startup from their defaults and the
// feature_flags config block and never change afterwards, so a Flags
// value can be shared freely between concurrent requests.
package featureflag

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Flag describes a toggle known to the application.
type Flag struct {
	Key          string
	Description  string
	DefaultValue bool
}

// TaxInclusivePricing allows prices, currencies and regions to be
// marked as tax inclusive.
var TaxInclusivePricing = Flag{
	Key:          "tax_inclusive_pricing",
	Description:  "Enable tax inclusive pricing",
	DefaultValue: false,
}

// Known lists every flag the application understands.
var Known = []Flag{
	TaxInclusivePricing,
}

// Flags is an immutable snapshot of flag states.
type Flags struct {
	enabled map[string]bool
}

// New resolves every known flag from its default and the given overrides.
//
// Override keys are matched case-insensitively. Unknown keys are logged
// and ignored.
func New(overrides map[string]bool, logger zerolog.Logger) Flags {
	enabled := make(map[string]bool, len(Known))
	known := make(map[string]struct{}, len(Known))

	for _, flag := range Known {
		enabled[flag.Key] = flag.DefaultValue
		known[flag.Key] = struct{}{}
	}

	for key, value := range overrides {
		normalized := strings.ToLower(strings.TrimSpace(key))
		if _, ok := known[normalized]; !ok {
			logger.Warn().Str("flag", key).Msg("ignoring unknown feature flag")
			continue
		}
		enabled[normalized] = value
	}

	flags := Flags{enabled: enabled}
	logger.Info().Strs("enabled", flags.Enabled()).Msg("feature flags loaded")

	return flags
}

// Of builds a snapshot directly from key/value pairs, mainly for tests.
func Of(values map[string]bool) Flags {
	enabled := make(map[string]bool, len(values))
	for k, v := range values {
		enabled[k] = v
	}
	return Flags{enabled: enabled}
}

// IsEnabled reports whether flag is on. The zero Flags has everything off.
func (f Flags) IsEnabled(flag Flag) bool {
	return f.enabled[flag.Key]
}

// Enabled returns the sorted keys of all enabled flags.
func (f Flags) Enabled() []string {
	keys := make([]string, 0, len(f.enabled))
	for key, on := range f.enabled {
		if on {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
