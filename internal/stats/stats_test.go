package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/profile-explorer/internal/model"
)

// =========================================================================
// ACCOUNT AGE
// =========================================================================

func TestAccountAge(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	for k := 0; k <= 20; k++ {
		created := now.Add(-time.Duration(k) * 365 * 24 * time.Hour)
		assert.Equal(t, k, AccountAge(created, now), "exactly %d years of 365 days", k)
	}

	t.Run("just short of a year", func(t *testing.T) {
		created := now.Add(-365*24*time.Hour + time.Second)
		assert.Equal(t, 0, AccountAge(created, now))
	})

	t.Run("future timestamp is negative", func(t *testing.T) {
		created := now.Add(24 * time.Hour)
		assert.Equal(t, -1, AccountAge(created, now))
	})

	t.Run("leap days are not corrected", func(t *testing.T) {
		// Four calendar years include a leap day, so 4*365 days is reached
		// one day before the calendar anniversary.
		created := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 4, AccountAge(created, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}

// =========================================================================
// AGGREGATION
// =========================================================================

func TestAggregate(t *testing.T) {
	repos := []model.Repository{
		{Name: "a", Stars: 10, Forks: 1, Language: "Go"},
		{Name: "b", Stars: 5, Forks: 2, Language: ""},
		{Name: "c", Stars: 3, Forks: 0, Language: "Go"},
	}

	m := Aggregate(repos)

	assert.Equal(t, 3, m.RepoCount)
	assert.Equal(t, 18, m.TotalStars)
	assert.Equal(t, 3, m.TotalForks)
	assert.Equal(t, 6, m.AverageStars)
	assert.Equal(t, []string{"Go"}, m.Languages)
	assert.Equal(t, []string{"a", "b", "c"}, m.TopRepositories)
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)

	assert.Zero(t, m.TotalStars)
	assert.Zero(t, m.TotalForks)
	assert.Zero(t, m.AverageStars)
	require.NotNil(t, m.Languages)
	assert.Empty(t, m.Languages)
	require.NotNil(t, m.TopRepositories)
	assert.Empty(t, m.TopRepositories)
}

func TestAggregate_LanguagesDistinctFirstSeen(t *testing.T) {
	repos := []model.Repository{
		{Name: "1", Language: "Rust"},
		{Name: "2", Language: "Go"},
		{Name: "3", Language: "Rust"},
		{Name: "4"},
		{Name: "5", Language: "TypeScript"},
		{Name: "6", Language: "Go"},
		{Name: "7", Language: "Python"},
	}

	m := Aggregate(repos)

	assert.Equal(t, []string{"Rust", "Go", "TypeScript", "Python"}, m.Languages)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, m.TopRepositories)
}

func TestAverageStars(t *testing.T) {
	tests := []struct {
		total, count, want int
	}{
		{0, 0, 0},
		{18, 3, 6},
		{5, 2, 3}, // 2.5 rounds up
		{7, 3, 2}, // 2.33
		{8, 3, 3}, // 2.67
		{100, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AverageStars(tt.total, tt.count), "AverageStars(%d, %d)", tt.total, tt.count)
	}
}

// =========================================================================
// VERDICTS
// =========================================================================

func TestDecide(t *testing.T) {
	assert.Equal(t, model.VerdictLeft, Decide(2, 1))
	assert.Equal(t, model.VerdictRight, Decide(1, 2))
	assert.Equal(t, model.VerdictTie, Decide(3, 3))
	assert.Equal(t, model.VerdictTie, Decide(0, 0))
}

func TestCompare_AllMetricsPresent(t *testing.T) {
	rows := Compare(model.ComparisonSide{}, model.ComparisonSide{})

	require.Len(t, rows, 7)
	for _, row := range rows {
		assert.Equal(t, model.VerdictTie, row.Verdict, row.Metric)
	}
}

func TestCompare_Antisymmetric(t *testing.T) {
	a := model.ComparisonSide{
		Profile:         model.Profile{Followers: 10, Following: 3, PublicRepos: 8},
		Metrics:         model.AggregatedMetrics{TotalStars: 40, TotalForks: 2, AverageStars: 5},
		AccountAgeYears: 7,
	}
	b := model.ComparisonSide{
		Profile:         model.Profile{Followers: 4, Following: 3, PublicRepos: 12},
		Metrics:         model.AggregatedMetrics{TotalStars: 40, TotalForks: 9, AverageStars: 3},
		AccountAgeYears: 7,
	}

	forward := Compare(a, b)
	backward := Compare(b, a)
	require.Equal(t, len(forward), len(backward))

	mirror := map[model.Verdict]model.Verdict{
		model.VerdictLeft:  model.VerdictRight,
		model.VerdictRight: model.VerdictLeft,
		model.VerdictTie:   model.VerdictTie,
	}
	for i := range forward {
		assert.Equal(t, forward[i].Metric, backward[i].Metric)
		assert.Equal(t, mirror[forward[i].Verdict], backward[i].Verdict, forward[i].Metric)
		assert.Equal(t, forward[i].Left, backward[i].Right)
	}

	assert.Equal(t, model.VerdictLeft, forward[0].Verdict)  // followers
	assert.Equal(t, model.VerdictTie, forward[1].Verdict)   // following
	assert.Equal(t, model.VerdictRight, forward[2].Verdict) // public repos
	assert.Equal(t, model.VerdictTie, forward[3].Verdict)   // stars
}
