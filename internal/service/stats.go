package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"sheetworks-back/internal/model"
)

const monthLayout = "2006-01"

// StatsService reduces the raw log stream into per-company monthly
// distinct-user counts. The reduction is pure: idempotent and
// independent of log ordering.
type StatsService struct {
	log  *zap.Logger
	logs LogRepository
	keys AuthKeyRepository
}

func NewStatsService(log *zap.Logger, logs LogRepository, keys AuthKeyRepository) *StatsService {
	return &StatsService{
		log:  log,
		logs: logs,
		keys: keys,
	}
}

// GetStats aggregates the current log stream. An unreachable store
// degrades to empty stats rather than an error so the admin view stays
// up; degraded reports that case.
func (s *StatsService) GetStats(ctx context.Context) (stats *model.Stats, degraded bool) {
	entries, err := s.logs.GetAll(ctx)
	if err != nil {
		s.log.Warn("Stats degraded: log stream unavailable", zap.Error(err))
		return Aggregate(nil, nil, time.Now().UTC()), true
	}

	keys, err := s.keys.GetAll(ctx)
	if err != nil {
		s.log.Warn("Stats missing key annotations", zap.Error(err))
		keys = nil
	}

	return Aggregate(entries, keys, time.Now().UTC()), false
}

// Aggregate groups entries by (company, year-month) and counts distinct
// emails case-insensitively, with a separate free/paid split. now fixes
// which calendar month counts as current.
func Aggregate(entries []model.LogEntry, keys []model.AuthKey, now time.Time) *model.Stats {
	currentMonth := now.Format(monthLayout)

	stats := &model.Stats{
		Companies:    make(map[string]*model.CompanyStats),
		CurrentMonth: currentMonth,
		Breakdown: model.StatsBreakdown{
			Free: model.TierStats{MonthlyActiveUsers: make(map[string]int)},
			Paid: model.TierStats{MonthlyActiveUsers: make(map[string]int)},
		},
	}

	companyMonthly := make(map[string]map[string]map[string]struct{})
	freeByMonth := make(map[string]map[string]struct{})
	paidByMonth := make(map[string]map[string]struct{})
	allFree := make(map[string]struct{})
	allPaid := make(map[string]struct{})

	for _, entry := range entries {
		if entry.Email == "" || entry.Company == "" || entry.Timestamp.IsZero() {
			continue
		}

		month := entry.Timestamp.Format(monthLayout)
		email := strings.ToLower(entry.Email)
		free := entry.IsFreeUser || entry.AuthKey == model.FreeKeySentinel || entry.Company == model.FreeCompany

		months, ok := companyMonthly[entry.Company]
		if !ok {
			months = make(map[string]map[string]struct{})
			companyMonthly[entry.Company] = months
		}

		users, ok := months[month]
		if !ok {
			users = make(map[string]struct{})
			months[month] = users
		}

		users[email] = struct{}{}

		if free {
			allFree[email] = struct{}{}
			addToMonth(freeByMonth, month, email)
		} else {
			allPaid[email] = struct{}{}
			addToMonth(paidByMonth, month, email)
		}
	}

	for company, months := range companyMonthly {
		cs := &model.CompanyStats{
			MonthlyActiveUsers: make(map[string]int),
			IsFree:             company == model.FreeCompany,
		}

		unique := make(map[string]struct{})

		for month, users := range months {
			cs.MonthlyActiveUsers[month] = len(users)

			for email := range users {
				unique[email] = struct{}{}
			}

			if month == currentMonth {
				cs.CurrentMonthUsers = len(users)
			}
		}

		cs.TotalUniqueUsers = len(unique)
		stats.Companies[company] = cs
		stats.TotalUniqueUsers += len(unique)
	}

	stats.TotalFreeUsers = len(allFree)
	stats.TotalPaidUsers = len(allPaid)
	stats.Breakdown.Free = tierStats(allFree, freeByMonth, currentMonth)
	stats.Breakdown.Paid = tierStats(allPaid, paidByMonth, currentMonth)

	// Annotate companies with their key id and active flag so the admin
	// view links usage back to the registry.
	for _, key := range keys {
		if key.Company == "" {
			continue
		}

		cs, ok := stats.Companies[key.Company]
		if !ok {
			cs = &model.CompanyStats{MonthlyActiveUsers: make(map[string]int)}
			stats.Companies[key.Company] = cs
		}

		active := key.IsActive
		cs.AuthKey = key.ID
		cs.IsActive = &active
	}

	return stats
}

func addToMonth(byMonth map[string]map[string]struct{}, month, email string) {
	users, ok := byMonth[month]
	if !ok {
		users = make(map[string]struct{})
		byMonth[month] = users
	}

	users[email] = struct{}{}
}

func tierStats(all map[string]struct{}, byMonth map[string]map[string]struct{}, currentMonth string) model.TierStats {
	ts := model.TierStats{
		TotalUsers:         len(all),
		MonthlyActiveUsers: make(map[string]int),
	}

	for month, users := range byMonth {
		ts.MonthlyActiveUsers[month] = len(users)

		if month == currentMonth {
			ts.CurrentMonthUsers = len(users)
		}
	}

	return ts
}
