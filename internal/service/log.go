package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sheetworks-back/internal/model"
	"sheetworks-back/pkg/useragent"
)

type LogRepository interface {
	Insert(ctx context.Context, entry *model.LogEntry, retention time.Duration) error
	GetAll(ctx context.Context) ([]model.LogEntry, error)
}

// Activity is what a request contributes to one log entry before
// enrichment.
type Activity struct {
	AuthKey        string
	Email          string
	Company        string
	ClientIP       string
	UserAgent      string
	Origin         string
	Model          string
	Command        string
	SheetOperation string
	IsFreeUser     bool
}

type LogService struct {
	log       *zap.Logger
	repo      LogRepository
	retention time.Duration
	location  *time.Location
}

func NewLogService(log *zap.Logger, repo LogRepository, retention time.Duration, timezone string) *LogService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn("Unknown log timezone, falling back to UTC", zap.String("timezone", timezone))
		loc = time.UTC
	}

	return &LogService{
		log:       log,
		repo:      repo,
		retention: retention,
		location:  loc,
	}
}

// Record enriches and persists one activity entry. Callers treat this as
// best-effort; failures surface only in diagnostics.
func (s *LogService) Record(ctx context.Context, act Activity) error {
	now := time.Now().UTC()
	ua := useragent.Sniff(act.UserAgent)

	email := act.Email
	if email == "" {
		email = model.AnonymousEmail
	}

	entry := &model.LogEntry{
		ID:             uuid.NewString(),
		AuthKey:        act.AuthKey,
		Email:          email,
		Company:        act.Company,
		Timestamp:      now,
		LocalTime:      now.In(s.location).Format("2006-01-02 15:04:05"),
		ClientIP:       act.ClientIP,
		UserAgent:      act.UserAgent,
		OS:             ua.OS,
		Browser:        ua.Browser,
		Origin:         act.Origin,
		Model:          act.Model,
		Command:        act.Command,
		Action:         deriveAction(act.Command, act.SheetOperation),
		SheetOperation: act.SheetOperation,
		IsFreeUser:     act.IsFreeUser,
	}

	return s.repo.Insert(ctx, entry, s.retention)
}

// Recent returns up to limit entries, newest first. A missing store
// degrades to an empty result, not an error, so admin views stay up.
func (s *LogService) Recent(ctx context.Context, limit int) ([]model.LogEntry, int, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	total := len(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, total, nil
}

// deriveAction tags an entry with a coarse category for the admin view.
func deriveAction(command, sheetOperation string) string {
	if sheetOperation == model.BatchTranslateSentinel {
		return "translate_batch"
	}

	lower := strings.ToLower(command)

	switch {
	case strings.Contains(lower, "번역") || strings.Contains(lower, "translat"):
		return "translate"
	case strings.Contains(lower, "합계") || strings.Contains(lower, "합산") ||
		strings.Contains(lower, "sum"):
		return "sum"
	case strings.Contains(lower, "평균") || strings.Contains(lower, "average"):
		return "average"
	case strings.Contains(lower, "정렬") || strings.Contains(lower, "sort"):
		return "sort"
	case strings.Contains(lower, "차트") || strings.Contains(lower, "그래프") ||
		strings.Contains(lower, "chart"):
		return "chart"
	case strings.Contains(lower, "서식") || strings.Contains(lower, "format") ||
		strings.Contains(lower, "색"):
		return "format"
	default:
		return "command"
	}
}
