package service

import (
	"context"

	"go.uber.org/zap"
)

type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports the liveness of each dependency the service can
// check without spending money (the LLM is never probed).
type HealthStatus struct {
	StoreOK          bool   `json:"storeOk"`
	StoreMode        string `json:"storeMode"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
}

type HealthService struct {
	log              *zap.Logger
	store            StorePinger
	storeMode        string
	apiKeyConfigured bool
}

func NewHealthService(log *zap.Logger, store StorePinger, storeMode string, apiKeyConfigured bool) *HealthService {
	return &HealthService{
		log:              log,
		store:            store,
		storeMode:        storeMode,
		apiKeyConfigured: apiKeyConfigured,
	}
}

func (s *HealthService) Status(ctx context.Context) HealthStatus {
	status := HealthStatus{
		StoreMode:        s.storeMode,
		APIKeyConfigured: s.apiKeyConfigured,
	}

	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("Store ping failed", zap.Error(err))
	} else {
		status.StoreOK = true
	}

	return status
}
