package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/wargame-mechanics/internal/engine"
	"github.com/KirkDiggler/wargame-mechanics/internal/library"
	"github.com/KirkDiggler/wargame-mechanics/internal/repositories/resolutions"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/coreabilities"
	resolutionService "github.com/KirkDiggler/wargame-mechanics/internal/services/resolution"
)

// Provider holds all service instances
type Provider struct {
	Registry          *coreabilities.Registry
	Resolver          engine.Resolver
	ResolutionService resolutionService.Service
	Library           *library.Loader
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Registry             *coreabilities.Registry // Required
	LibraryDirs          []string                // Required
	ResolutionRepository resolutions.Repository  // Optional, in-memory when nil
	CacheTTL             time.Duration           // Optional, applies to the in-memory fallback
	BatchLimit           int                     // Optional
	Logger               *zap.Logger             // Optional
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg.Registry == nil {
		panic("registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Use in-memory repository if none provided
	repo := cfg.ResolutionRepository
	if repo == nil {
		repo = resolutions.NewInMemoryRepository(&resolutions.InMemoryConfig{TTL: cfg.CacheTTL})
	}

	resolver := engine.NewResolver(&engine.ResolverConfig{
		Registry: cfg.Registry,
		Logger:   logger.Named("engine"),
	})

	svc := resolutionService.NewService(&resolutionService.ServiceConfig{
		Repository: repo,
		Resolver:   resolver,
		Logger:     logger.Named("resolution"),
		BatchLimit: cfg.BatchLimit,
		Ruleset:    cfg.Registry.Fingerprint(),
	})

	return &Provider{
		Registry:          cfg.Registry,
		Resolver:          resolver,
		ResolutionService: svc,
		Library:           library.NewLoader(cfg.LibraryDirs...),
	}
}
