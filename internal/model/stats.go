package model

// CompanyStats is the per-company slice of the usage aggregation.
type CompanyStats struct {
	MonthlyActiveUsers map[string]int `json:"monthlyActiveUsers"`
	TotalUniqueUsers   int            `json:"totalUniqueUsers"`
	CurrentMonthUsers  int            `json:"currentMonthUsers"`
	IsFree             bool           `json:"isFree"`
	AuthKey            string         `json:"authKey,omitempty"`
	IsActive           *bool          `json:"isActive,omitempty"`
}

// TierStats splits distinct users by free/paid tier.
type TierStats struct {
	TotalUsers         int            `json:"totalUsers"`
	CurrentMonthUsers  int            `json:"currentMonthUsers"`
	MonthlyActiveUsers map[string]int `json:"monthlyActiveUsers"`
}

// Stats is the full usage aggregation: company × month distinct-email
// counts plus the free/paid breakdown. Produced by a pure reduction over
// the log stream; independent of log ordering.
type Stats struct {
	Companies        map[string]*CompanyStats `json:"companies"`
	TotalUniqueUsers int                      `json:"totalUniqueUsers"`
	TotalFreeUsers   int                      `json:"totalFreeUsers"`
	TotalPaidUsers   int                      `json:"totalPaidUsers"`
	CurrentMonth     string                   `json:"currentMonth"`
	Breakdown        StatsBreakdown           `json:"breakdown"`
}

type StatsBreakdown struct {
	Free TierStats `json:"free"`
	Paid TierStats `json:"paid"`
}
