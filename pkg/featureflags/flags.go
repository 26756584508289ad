// ABOUTME: Feature flags toggle acquisition tiers and transport behaviour
// ABOUTME: Provides environment-backed and static managers with per-flag defaults

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// CacheEnabled enables the cached snapshot tier and cache writes
	CacheEnabled FeatureFlag = "cache_enabled"

	// StaticSnapshotEnabled enables the bundled static snapshot tier
	StaticSnapshotEnabled FeatureFlag = "static_snapshot_enabled"

	// BackgroundRefreshEnabled enables the live refresh after a static snapshot hit
	BackgroundRefreshEnabled FeatureFlag = "background_refresh_enabled"

	// RateLimitEnabled enables the outbound relay rate limiter
	RateLimitEnabled FeatureFlag = "rate_limit_enabled"
)

// Defaults holds the state of each flag when nothing overrides it
var Defaults = map[FeatureFlag]bool{
	CacheEnabled:             true,
	StaticSnapshotEnabled:    true,
	BackgroundRefreshEnabled: true,
	RateLimitEnabled:         true,
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// SetEnabled sets a feature flag's state (for testing)
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns the state of all flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager implements Manager using environment variables
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	prefix    string
}

// NewEnvManager creates a new environment-based feature flag manager
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		prefix:    prefix,
	}
}

// IsEnabled checks if a feature flag is enabled.
// Overrides win, then the environment, then Defaults.
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	if enabled, ok := m.overrides[flag]; ok {
		m.mu.RUnlock()
		return enabled
	}
	m.mu.RUnlock()

	envKey := m.prefix + strings.ToUpper(string(flag))
	if enabled, ok := parseBool(os.Getenv(envKey)); ok {
		return enabled
	}
	return Defaults[flag]
}

// SetEnabled sets a feature flag's state (mainly for testing)
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of all defined flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(Defaults))
	for flag := range Defaults {
		flags[flag] = m.IsEnabled(ctx, flag)
	}
	return flags
}

// parseBool recognises the accepted spellings; ok is false for anything else
func parseBool(value string) (enabled bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "enabled", "on":
		return true, true
	case "false", "0", "disabled", "off":
		return false, true
	}
	return false, false
}

// StaticManager implements Manager with static configuration.
// Flags missing from the map fall back to Defaults.
type StaticManager struct {
	flags map[FeatureFlag]bool
	mu    sync.RWMutex
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	copied := make(map[FeatureFlag]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &StaticManager{
		flags: copied,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if enabled, ok := m.flags[flag]; ok {
		return enabled
	}
	return Defaults[flag]
}

// SetEnabled sets a feature flag's state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	result := make(map[FeatureFlag]bool, len(Defaults))
	for flag := range Defaults {
		result[flag] = m.IsEnabled(ctx, flag)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}
