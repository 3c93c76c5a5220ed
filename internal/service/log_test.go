package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"sheetworks-back/internal/model"
)

type stubLogRepo struct {
	mu sync.Mutex

	inserted  []model.LogEntry
	retention time.Duration
	entries   []model.LogEntry
	err       error
}

func (s *stubLogRepo) Insert(_ context.Context, entry *model.LogEntry, retention time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserted = append(s.inserted, *entry)
	s.retention = retention

	return s.err
}

func (s *stubLogRepo) GetAll(context.Context) ([]model.LogEntry, error) {
	return s.entries, s.err
}

func TestRecordEnrichesEntry(t *testing.T) {
	repo := &stubLogRepo{}
	svc := NewLogService(zap.NewNop(), repo, 30*24*time.Hour, "Asia/Seoul")

	err := svc.Record(context.Background(), Activity{
		AuthKey:   "WORKS-AAAA1111",
		Company:   "Acme",
		Command:   "D열 합계 구해줘",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d entries, want 1", len(repo.inserted))
	}

	got := repo.inserted[0]

	if got.ID == "" {
		t.Error("entry id not assigned")
	}

	if got.Email != model.AnonymousEmail {
		t.Errorf("email = %q, want %q for missing email", got.Email, model.AnonymousEmail)
	}

	if got.Action != "sum" {
		t.Errorf("action = %q, want sum", got.Action)
	}

	if got.OS != "Windows 10/11" || got.Browser != "Chrome" {
		t.Errorf("user agent sniffed as %s/%s, want Windows 10/11/Chrome", got.OS, got.Browser)
	}

	if got.Timestamp.IsZero() || got.LocalTime == "" {
		t.Errorf("timestamps not populated: %+v", got)
	}

	if repo.retention != 30*24*time.Hour {
		t.Errorf("retention = %v, want 720h", repo.retention)
	}
}

func TestRecentOrdersAndLimits(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	repo := &stubLogRepo{}
	for i := 0; i < 5; i++ {
		repo.entries = append(repo.entries, model.LogEntry{
			ID:        string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
	}

	svc := NewLogService(zap.NewNop(), repo, time.Hour, "UTC")

	entries, total, err := svc.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}

	if len(entries) != 3 {
		t.Fatalf("returned %d entries, want 3", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Errorf("entries not newest first: %v before %v", entries[i-1].Timestamp, entries[i].Timestamp)
		}
	}
}

func TestDeriveAction(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		operation string
		want      string
	}{
		{name: "batch sentinel", operation: model.BatchTranslateSentinel, want: "translate_batch"},
		{name: "korean translate", command: "이거 일본어로 번역해줘", want: "translate"},
		{name: "korean sum", command: "D열 합계 구해줘", want: "sum"},
		{name: "english sum", command: "sum column D", want: "sum"},
		{name: "korean average", command: "평균 내줘", want: "average"},
		{name: "korean sort", command: "가격순으로 정렬", want: "sort"},
		{name: "korean chart", command: "매출 그래프 그려줘", want: "chart"},
		{name: "korean format", command: "빨간색으로 칠해줘", want: "format"},
		{name: "fallback", command: "셀 병합해줘", want: "command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveAction(tt.command, tt.operation); got != tt.want {
				t.Errorf("deriveAction(%q, %q) = %q, want %q", tt.command, tt.operation, got, tt.want)
			}
		})
	}
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	repo := &stubLogRepo{}
	svc := NewLogService(zap.NewNop(), repo, time.Hour, "Not/AZone")

	if err := svc.Record(context.Background(), Activity{Company: "Acme"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if len(repo.inserted) != 1 || repo.inserted[0].LocalTime == "" {
		t.Error("record with fallback timezone did not produce a local time")
	}
}
