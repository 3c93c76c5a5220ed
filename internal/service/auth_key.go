package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
)

// Unambiguous alphabet for generated key suffixes.
const keyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const keySuffixLen = 8

type AuthKeyRepository interface {
	Insert(ctx context.Context, key *model.AuthKey) error
	GetByID(ctx context.Context, id string) (*model.AuthKey, error)
	GetAll(ctx context.Context) ([]model.AuthKey, error)
	Deactivate(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

type AuthKeyService struct {
	log       *zap.Logger
	repo      AuthKeyRepository
	keyPrefix string
}

func NewAuthKeyService(log *zap.Logger, repo AuthKeyRepository, keyPrefix string) *AuthKeyService {
	return &AuthKeyService{
		log:       log,
		repo:      repo,
		keyPrefix: keyPrefix,
	}
}

// Create issues a new opaque key for a company. The id is the bearer
// token itself; there is no separate secret.
func (s *AuthKeyService) Create(ctx context.Context, company, memo string) (*model.AuthKey, error) {
	if company == "" {
		return nil, apperrors.ErrCompanyRequired
	}

	id, err := s.generateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key id: %w", err)
	}

	key := &model.AuthKey{
		ID:        id,
		Company:   company,
		Memo:      memo,
		CreatedAt: time.Now().UTC(),
		CreatedBy: "admin",
		IsActive:  true,
	}

	if err := s.repo.Insert(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to insert key: %w", err)
	}

	s.log.Info("Auth key created", zap.String("company", company))

	return key, nil
}

// List returns all keys, newest first.
func (s *AuthKeyService) List(ctx context.Context) ([]model.AuthKey, error) {
	keys, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})

	return keys, nil
}

func (s *AuthKeyService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.log.Info("Auth key deactivated", zap.String("key", id))

	return nil
}

func (s *AuthKeyService) generateID() (string, error) {
	raw := make([]byte, keySuffixLen)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	suffix := make([]byte, keySuffixLen)
	for i, b := range raw {
		suffix[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}

	return fmt.Sprintf("%s-%s", s.keyPrefix, suffix), nil
}
