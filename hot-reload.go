// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and applies the subset of Cache
// parameters that can change without rebuilding the cache: MaximumWeight
// (via Policy.SetMaximum). Capacity-shape parameters like WindowRatio or
// the reference-strength settings require reconstruction and are
// intentionally not hot-reloadable, per spec §4.8.
type HotConfig[K comparable, V any] struct {
	cache   Cache[K, V]
	watcher *argus.Watcher
	mu      sync.RWMutex
	maximum int64

	// OnReload is called after a configuration change is applied. Must
	// be fast and non-blocking.
	OnReload func(oldMaximum, newMaximum int64)

	logger Logger
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after a configuration change is applied.
	OnReload func(oldMaximum, newMaximum int64)

	// Logger for hot reload operations. Defaults to NoOpLogger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for cache and
// starts watching opts.ConfigPath immediately.
//
// Example configuration file (YAML):
//
//	cache:
//	  max_weight: 10000
//
// Only cache.max_weight is currently recognized.
func NewHotConfig[K comparable, V any](cache Cache[K, V], opts HotConfigOptions) (*HotConfig[K, V], error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig[K, V]{
		cache:    cache,
		OnReload: opts.OnReload,
		maximum:  cache.Policy().Maximum(),
		logger:   opts.Logger,
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig[K, V]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig[K, V]) Stop() error {
	return hc.watcher.Stop()
}

// CurrentMaximum returns the maximum weight last applied by a reload.
func (hc *HotConfig[K, V]) CurrentMaximum() int64 {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.maximum
}

func (hc *HotConfig[K, V]) handleConfigChange(data map[string]interface{}) {
	newMax, ok := extractMaxWeight(data)
	if !ok {
		return
	}

	hc.mu.Lock()
	old := hc.maximum
	hc.maximum = newMax
	hc.mu.Unlock()

	if old == newMax {
		return
	}

	hc.cache.Policy().SetMaximum(newMax)
	hc.logger.Info("xanthos: hot-reloaded maximum weight", "old", old, "new", newMax)

	if hc.OnReload != nil {
		hc.OnReload(old, newMax)
	}
}

// extractMaxWeight reads cache.max_weight (or a top-level max_weight) out
// of an Argus-decoded config document, accepting both int and float64
// since JSON/YAML decoders vary.
func extractMaxWeight(data map[string]interface{}) (int64, bool) {
	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		section = data
	}

	switch v := section["max_weight"].(type) {
	case int:
		return int64(v), v > 0
	case int64:
		return v, v > 0
	case float64:
		return int64(v), v > 0
	default:
		return 0, false
	}
}
