// Package stats holds the pure calculations behind profile views and
// comparisons: account age, repository aggregation and per-metric verdicts.
// Nothing here does I/O, so every function is safe for concurrent use.
package stats

import (
	"math"
	"time"

	"github.com/sakif/profile-explorer/internal/model"
)

// TopRepositoryCount is how many repository names the "top" list keeps.
const TopRepositoryCount = 5

const year = 365 * 24 * time.Hour

// AccountAge returns whole years since created, measured against now.
//
// A year is a flat 365 days with no leap-year correction, so ages drift by
// about a day every four years. Creation times in the future yield a
// negative age; the value is not clamped.
func AccountAge(created, now time.Time) int {
	return int(math.Floor(float64(now.Sub(created)) / float64(year)))
}

// Aggregate computes the derived metrics of a repository set in one pass.
//
// The input order matters: TopRepositories keeps the first entries as
// given, which is the "most recently updated" order the Directory API
// was asked for. Languages keeps first-seen order and drops blanks.
// An empty set yields zero sums and an average of 0.
func Aggregate(repos []model.Repository) model.AggregatedMetrics {
	m := model.AggregatedMetrics{
		RepoCount:       len(repos),
		Languages:       []string{},
		TopRepositories: []string{},
	}

	seen := make(map[string]struct{})
	for i, r := range repos {
		m.TotalStars += r.Stars
		m.TotalForks += r.Forks

		if r.Language != "" {
			if _, ok := seen[r.Language]; !ok {
				seen[r.Language] = struct{}{}
				m.Languages = append(m.Languages, r.Language)
			}
		}

		if i < TopRepositoryCount {
			m.TopRepositories = append(m.TopRepositories, r.Name)
		}
	}

	m.AverageStars = AverageStars(m.TotalStars, len(repos))
	return m
}

// AverageStars rounds total/count to the nearest integer, halves away from
// zero, and defines the empty case as 0.
func AverageStars(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

// Decide is a strict greater-than comparison; equal values are a tie.
func Decide(left, right int) model.Verdict {
	switch {
	case left > right:
		return model.VerdictLeft
	case right > left:
		return model.VerdictRight
	default:
		return model.VerdictTie
	}
}

// Compare produces the verdict table for two aggregated sides.
// Every metric is always present, ties included.
func Compare(left, right model.ComparisonSide) []model.MetricComparison {
	rows := []struct {
		metric model.Metric
		label  string
		value  func(model.ComparisonSide) int
	}{
		{model.MetricFollowers, "Followers", func(s model.ComparisonSide) int { return s.Profile.Followers }},
		{model.MetricFollowing, "Following", func(s model.ComparisonSide) int { return s.Profile.Following }},
		{model.MetricPublicRepos, "Public Repos", func(s model.ComparisonSide) int { return s.Profile.PublicRepos }},
		{model.MetricTotalStars, "Total Stars", func(s model.ComparisonSide) int { return s.Metrics.TotalStars }},
		{model.MetricTotalForks, "Total Forks", func(s model.ComparisonSide) int { return s.Metrics.TotalForks }},
		{model.MetricAverageStars, "Avg Stars/Repo", func(s model.ComparisonSide) int { return s.Metrics.AverageStars }},
		{model.MetricAccountAge, "Account Age (years)", func(s model.ComparisonSide) int { return s.AccountAgeYears }},
	}

	out := make([]model.MetricComparison, 0, len(rows))
	for _, row := range rows {
		l, r := row.value(left), row.value(right)
		out = append(out, model.MetricComparison{
			Metric:  row.metric,
			Label:   row.label,
			Left:    l,
			Right:   r,
			Verdict: Decide(l, r),
		})
	}
	return out
}
