package analyzer

import (
	"fmt"
	"sort"
	"sync"

	"midad/internal/config"
	"midad/internal/domain"
	"midad/internal/port"
)

// ProviderFactory is a function that creates a Generator from the parser config.
type ProviderFactory func(cfg *config.ParserConfig) (port.Generator, error)

// registry of provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewGenerator creates a Generator from the parser config using the registered factory.
func NewGenerator(cfg *config.ParserConfig) (port.Generator, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, cfg.Provider)
	}
	return factory(cfg)
}
