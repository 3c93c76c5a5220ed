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
	logSet    = "validation_logs"
	logPrefix = "log:"
)

type LogRepository struct {
	store Store
}

func NewLogRepository(store Store) *LogRepository {
	return &LogRepository{store: store}
}

// Insert writes one log entry with the retention TTL. Set membership and
// the hash expire together; readers skip members whose hash already
// lapsed.
func (r *LogRepository) Insert(ctx context.Context, entry *model.LogEntry, retention time.Duration) error {
	key := logPrefix + entry.ID

	fields := map[string]string{
		"authKey":        entry.AuthKey,
		"email":          entry.Email,
		"company":        entry.Company,
		"timestamp":      entry.Timestamp.Format(time.RFC3339),
		"localTime":      entry.LocalTime,
		"clientIP":       entry.ClientIP,
		"userAgent":      entry.UserAgent,
		"os":             entry.OS,
		"browser":        entry.Browser,
		"origin":         entry.Origin,
		"model":          entry.Model,
		"command":        entry.Command,
		"action":         entry.Action,
		"sheetOperation": entry.SheetOperation,
		"isFreeUser":     strconv.FormatBool(entry.IsFreeUser),
	}

	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store log fields: %w", err)
	}

	if err := r.store.Expire(ctx, key, retention); err != nil {
		return fmt.Errorf("failed to set log expiry: %w", err)
	}

	if err := r.store.SAdd(ctx, logSet, key); err != nil {
		return fmt.Errorf("failed to register log key: %w", err)
	}

	return nil
}

func (r *LogRepository) GetAll(ctx context.Context) ([]model.LogEntry, error) {
	keys, err := r.store.SMembers(ctx, logSet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}

	entries := make([]model.LogEntry, 0, len(keys))

	for _, key := range keys {
		fields, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
		}

		if len(fields) == 0 {
			// Hash expired before set membership; reap the orphan.
			_ = r.store.SRem(ctx, logSet, key)
			continue
		}

		entries = append(entries, logEntryFromFields(key, fields))
	}

	return entries, nil
}

func logEntryFromFields(key string, fields map[string]string) model.LogEntry {
	entry := model.LogEntry{
		ID:             key,
		AuthKey:        fields["authKey"],
		Email:          fields["email"],
		Company:        fields["company"],
		LocalTime:      fields["localTime"],
		ClientIP:       fields["clientIP"],
		UserAgent:      fields["userAgent"],
		OS:             fields["os"],
		Browser:        fields["browser"],
		Origin:         fields["origin"],
		Model:          fields["model"],
		Command:        fields["command"],
		Action:         fields["action"],
		SheetOperation: fields["sheetOperation"],
		IsFreeUser:     Truthy(fields["isFreeUser"]),
	}

	if t, err := time.Parse(time.RFC3339, fields["timestamp"]); err == nil {
		entry.Timestamp = t
	}

	return entry
}
