package model

// Verdict is the three-way outcome of comparing one metric.
type Verdict string

const (
	VerdictLeft  Verdict = "left"
	VerdictRight Verdict = "right"
	VerdictTie   Verdict = "tie"
)

// Metric identifies one compared quantity.
type Metric string

const (
	MetricFollowers    Metric = "followers"
	MetricFollowing    Metric = "following"
	MetricPublicRepos  Metric = "public_repos"
	MetricTotalStars   Metric = "total_stars"
	MetricTotalForks   Metric = "total_forks"
	MetricAverageStars Metric = "average_stars"
	MetricAccountAge   Metric = "account_age_years"
)

// MetricComparison holds both sides of one metric and who wins it.
type MetricComparison struct {
	Metric  Metric  `json:"metric"`
	Label   string  `json:"label"`
	Left    int     `json:"left"`
	Right   int     `json:"right"`
	Verdict Verdict `json:"verdict"`
}

// ComparisonSide is one fully fetched and aggregated profile.
type ComparisonSide struct {
	Profile         Profile           `json:"profile"`
	Metrics         AggregatedMetrics `json:"metrics"`
	AccountAgeYears int               `json:"accountAgeYears"`
}

type Comparison struct {
	Left    ComparisonSide     `json:"left"`
	Right   ComparisonSide     `json:"right"`
	Metrics []MetricComparison `json:"metrics"`
}
