package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
)

const (
	authKeySet    = "auth_keys"
	authKeyPrefix = "auth_key:"
)

const (
	fieldCompany    = "company"
	fieldMemo       = "memo"
	fieldCreatedAt  = "createdAt"
	fieldCreatedBy  = "createdBy"
	fieldIsActive   = "isActive"
	fieldUsageCount = "usageCount"
	fieldLastUsed   = "lastUsed"
)

type AuthKeyRepository struct {
	store Store
}

func NewAuthKeyRepository(store Store) *AuthKeyRepository {
	return &AuthKeyRepository{store: store}
}

func (r *AuthKeyRepository) Insert(ctx context.Context, key *model.AuthKey) error {
	if err := r.store.SAdd(ctx, authKeySet, key.ID); err != nil {
		return fmt.Errorf("failed to register key id: %w", err)
	}

	fields := map[string]string{
		fieldCompany:    key.Company,
		fieldMemo:       key.Memo,
		fieldCreatedAt:  key.CreatedAt.Format(time.RFC3339),
		fieldCreatedBy:  key.CreatedBy,
		fieldIsActive:   strconv.FormatBool(key.IsActive),
		fieldUsageCount: strconv.FormatInt(key.UsageCount, 10),
	}

	if err := r.store.HSet(ctx, authKeyPrefix+key.ID, fields); err != nil {
		return fmt.Errorf("failed to store key fields: %w", err)
	}

	return nil
}

func (r *AuthKeyRepository) GetByID(ctx context.Context, id string) (*model.AuthKey, error) {
	fields, err := r.store.HGetAll(ctx, authKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}

	if len(fields) == 0 {
		return nil, apperrors.ErrKeyDoesNotExist
	}

	return authKeyFromFields(id, fields), nil
}

func (r *AuthKeyRepository) GetAll(ctx context.Context) ([]model.AuthKey, error) {
	ids, err := r.store.SMembers(ctx, authKeySet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}

	keys := make([]model.AuthKey, 0, len(ids))

	for _, id := range ids {
		fields, err := r.store.HGetAll(ctx, authKeyPrefix+id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
		}

		if len(fields) == 0 {
			continue
		}

		keys = append(keys, *authKeyFromFields(id, fields))
	}

	return keys, nil
}

// Deactivate flips isActive to false. The record stays in the registry.
func (r *AuthKeyRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	if err := r.store.HSet(ctx, authKeyPrefix+id, map[string]string{fieldIsActive: "false"}); err != nil {
		return fmt.Errorf("failed to deactivate key: %w", err)
	}

	return nil
}

// IncrementUsage relies on the store's atomic increment; there is no
// application-level locking around concurrent authorizations.
func (r *AuthKeyRepository) IncrementUsage(ctx context.Context, id string) error {
	if _, err := r.store.HIncrBy(ctx, authKeyPrefix+id, fieldUsageCount, 1); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	return nil
}

func (r *AuthKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	fields := map[string]string{fieldLastUsed: at.Format(time.RFC3339)}

	if err := r.store.HSet(ctx, authKeyPrefix+id, fields); err != nil {
		return fmt.Errorf("failed to stamp last used: %w", err)
	}

	return nil
}

func authKeyFromFields(id string, fields map[string]string) *model.AuthKey {
	key := &model.AuthKey{
		ID:       id,
		Company:  fields[fieldCompany],
		Memo:     fields[fieldMemo],
		IsActive: Truthy(fields[fieldIsActive]),
	}

	if v := fields[fieldCreatedBy]; v != "" {
		key.CreatedBy = v
	}

	if t, err := time.Parse(time.RFC3339, fields[fieldCreatedAt]); err == nil {
		key.CreatedAt = t
	}

	if n, err := strconv.ParseInt(fields[fieldUsageCount], 10, 64); err == nil {
		key.UsageCount = n
	}

	if t, err := time.Parse(time.RFC3339, fields[fieldLastUsed]); err == nil {
		key.LastUsed = &t
	}

	return key
}
