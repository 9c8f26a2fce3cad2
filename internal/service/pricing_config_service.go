package service

import (
	"context"
	"time"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"
)

// PricingConfigService access to the active pricing configuration with a
// short-lived cache in front of the database
type PricingConfigService struct {
	configs  repository.PricingConfigRepository
	cacheTTL time.Duration
}

// NewPricingConfigService creates the pricing config service
func NewPricingConfigService(configs repository.PricingConfigRepository, cacheTTL time.Duration) *PricingConfigService {
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &PricingConfigService{configs: configs, cacheTTL: cacheTTL}
}

// GetActive returns the active configuration row
func (s *PricingConfigService) GetActive(ctx context.Context) (*models.PricingConfig, error) {
	var cached models.PricingConfig
	hit, err := cache.GetJSON(ctx, constants.CacheKeyActivePricingConfig, &cached)
	if err != nil {
		logger.Warnw("pricing_config_cache_read_failed", "error", err)
	}
	if hit && cached.ID != 0 {
		return &cached, nil
	}

	cfg, err := s.configs.GetActive()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrPricingConfigMissing
	}

	if err := cache.SetJSON(ctx, constants.CacheKeyActivePricingConfig, cfg, s.cacheTTL); err != nil {
		logger.Warnw("pricing_config_cache_write_failed", "error", err)
	}
	return cfg, nil
}

// GetActiveRules returns the active configuration parsed into engine rules
func (s *PricingConfigService) GetActiveRules(ctx context.Context) (*PricingRules, error) {
	cfg, err := s.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return ParsePricingRules(cfg)
}

// Invalidate drops the cached active row after configuration changes
func (s *PricingConfigService) Invalidate(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyActivePricingConfig); err != nil {
		logger.Warnw("pricing_config_cache_del_failed", "error", err)
	}
}
