package scoring

import (
	"fmt"
	"math"
	"time"
)

// Weights for each scoring factor. The factor maxima sum to 100.
const (
	weightCommitCount    = 30.0
	weightRepoAge        = 20.0
	weightRecentActivity = 20.0
	weightLanguages      = 15.0
	weightReadmeBonus    = 10.0
	weightDemoURLBonus   = 5.0
)

// Qualitative flags attached to a scored submission.
const (
	FlagLowCommits           = "LOW_COMMITS"
	FlagVeryNewRepo          = "VERY_NEW_REPO"
	FlagInactiveRepo         = "INACTIVE_REPO"
	FlagLowLanguageDiversity = "LOW_LANGUAGE_DIVERSITY"
	FlagNoReadme             = "NO_README"
	FlagSingleDayCommits     = "SINGLE_DAY_COMMITS"
)

// Signals holds the repository facts consumed by the scorer. Absent facts are
// represented by zero values and land in the most conservative bucket.
type Signals struct {
	RepoAgeDays              int              `json:"repoAgeDays"`
	LastPushDaysAgo          int              `json:"lastPushDaysAgo"`
	CommitCountEstimate      int              `json:"commitCountEstimate"`
	Languages                map[string]int64 `json:"languages"`
	HasReadme                bool             `json:"hasReadme"`
	ContributorCountEstimate int              `json:"contributorsCountEstimate"`
	SuspiciousPatterns       []string         `json:"suspiciousPatterns"`
}

// Result is the outcome of scoring a submission.
type Result struct {
	Score int
	Flags []string
}

// Score maps repository signals and the demo URL flag to a 0-100 confidence
// score plus a deduplicated set of qualitative flags. It is a pure function:
// identical inputs always produce identical results.
func Score(signals Signals, hasDemoURL bool) Result {
	flags := make([]string, 0, 8)
	score := 0.0

	switch {
	case signals.CommitCountEstimate >= 50:
		score += weightCommitCount
	case signals.CommitCountEstimate >= 20:
		score += weightCommitCount * 0.8
	case signals.CommitCountEstimate >= 10:
		score += weightCommitCount * 0.5
	default:
		score += weightCommitCount * 0.2
		flags = append(flags, FlagLowCommits)
	}

	switch {
	case signals.RepoAgeDays >= 30:
		score += weightRepoAge
	case signals.RepoAgeDays >= 14:
		score += weightRepoAge * 0.7
	case signals.RepoAgeDays >= 7:
		score += weightRepoAge * 0.4
	default:
		score += weightRepoAge * 0.1
		flags = append(flags, FlagVeryNewRepo)
	}

	switch {
	case signals.LastPushDaysAgo <= 7:
		score += weightRecentActivity
	case signals.LastPushDaysAgo <= 14:
		score += weightRecentActivity * 0.8
	case signals.LastPushDaysAgo <= 30:
		score += weightRecentActivity * 0.5
	default:
		score += weightRecentActivity * 0.2
		flags = append(flags, FlagInactiveRepo)
	}

	switch {
	case len(signals.Languages) >= 4:
		score += weightLanguages
	case len(signals.Languages) >= 3:
		score += weightLanguages * 0.8
	case len(signals.Languages) >= 2:
		score += weightLanguages * 0.5
	default:
		score += weightLanguages * 0.2
		flags = append(flags, FlagLowLanguageDiversity)
	}

	if signals.HasReadme {
		score += weightReadmeBonus
	} else {
		flags = append(flags, FlagNoReadme)
	}

	if hasDemoURL {
		score += weightDemoURLBonus
	}

	flags = append(flags, signals.SuspiciousPatterns...)

	rounded := int(math.Round(math.Min(100, math.Max(0, score))))

	return Result{Score: rounded, Flags: dedupe(flags)}
}

// DetectSuspiciousPatterns inspects commit author dates for anomalies. Commits
// are bucketed by the calendar day of the author date in its original offset;
// if the busiest day holds at least 80% of the commits the repository is
// flagged. An empty list yields no flags.
func DetectSuspiciousPatterns(authorDates []time.Time) []string {
	patterns := []string{}

	if len(authorDates) == 0 {
		return patterns
	}

	dayCounts := map[string]int{}
	for _, date := range authorDates {
		day := fmt.Sprintf("%d-%d-%d", date.Year(), int(date.Month()), date.Day())
		dayCounts[day]++
	}

	busiest := 0
	for _, count := range dayCounts {
		if count > busiest {
			busiest = count
		}
	}

	if float64(busiest)/float64(len(authorDates)) >= 0.8 {
		patterns = append(patterns, FlagSingleDayCommits)
	}

	return patterns
}

func dedupe(flags []string) []string {
	seen := make(map[string]struct{}, len(flags))
	result := make([]string, 0, len(flags))
	for _, flag := range flags {
		if _, ok := seen[flag]; ok {
			continue
		}
		seen[flag] = struct{}{}
		result = append(result, flag)
	}

	return result
}
