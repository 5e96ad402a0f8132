package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skillchain/skillchain-api/internal/scoring"
	"github.com/skillchain/skillchain-api/pkg/github"
)

// ErrInvalidRepoURL indicates the submitted repository URL cannot be parsed.
var ErrInvalidRepoURL = errors.New("invalid repository url")

// ErrRepoUnavailable indicates the repository metadata could not be fetched.
var ErrRepoUnavailable = errors.New("repository unavailable")

// RepositoryClient is the read-only surface of the code-hosting collaborator.
type RepositoryClient interface {
	GetMetadata(ctx context.Context, owner, repo string) (github.Metadata, error)
	GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error)
	CheckReadmeExists(ctx context.Context, owner, repo string) (bool, error)
	ListCommits(ctx context.Context, owner, repo string) ([]github.Commit, error)
	ListContributors(ctx context.Context, owner, repo string) ([]github.Contributor, error)
}

// SignalService collects repository signals for scoring.
type SignalService interface {
	Collect(ctx context.Context, repoURL string) (scoring.Signals, error)
}

type signalService struct {
	client RepositoryClient
	logger zerolog.Logger
	now    func() time.Time
}

// NewSignalService constructs a SignalService instance.
func NewSignalService(client RepositoryClient, logger zerolog.Logger) SignalService {
	return &signalService{
		client: client,
		logger: logger.With().Str("component", "signal_service").Logger(),
		now:    time.Now,
	}
}

// Collect fetches the five repository facts concurrently. The metadata fetch
// is load-bearing and fails the collection; the four auxiliary fetches degrade
// to empty values, which the scorer treats as the most conservative bucket.
func (s *signalService) Collect(ctx context.Context, repoURL string) (scoring.Signals, error) {
	owner, repo, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return scoring.Signals{}, ErrInvalidRepoURL
	}

	var (
		metadata     github.Metadata
		languages    map[string]int64
		hasReadme    bool
		commits      []github.Commit
		contributors []github.Contributor
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		fetched, err := s.client.GetMetadata(groupCtx, owner, repo)
		if err != nil {
			return err
		}
		metadata = fetched
		return nil
	})

	group.Go(func() error {
		fetched, err := s.client.GetLanguages(groupCtx, owner, repo)
		if err != nil {
			s.logger.Warn().Err(err).Str("owner", owner).Str("repo", repo).Msg("language fetch degraded")
			return nil
		}
		languages = fetched
		return nil
	})

	group.Go(func() error {
		exists, err := s.client.CheckReadmeExists(groupCtx, owner, repo)
		if err != nil {
			s.logger.Warn().Err(err).Str("owner", owner).Str("repo", repo).Msg("readme check degraded")
			return nil
		}
		hasReadme = exists
		return nil
	})

	group.Go(func() error {
		fetched, err := s.client.ListCommits(groupCtx, owner, repo)
		if err != nil {
			s.logger.Warn().Err(err).Str("owner", owner).Str("repo", repo).Msg("commit fetch degraded")
			return nil
		}
		commits = fetched
		return nil
	})

	group.Go(func() error {
		fetched, err := s.client.ListContributors(groupCtx, owner, repo)
		if err != nil {
			s.logger.Warn().Err(err).Str("owner", owner).Str("repo", repo).Msg("contributor fetch degraded")
			return nil
		}
		contributors = fetched
		return nil
	})

	if err := group.Wait(); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Str("repo", repo).Msg("repository metadata fetch failed")
		return scoring.Signals{}, ErrRepoUnavailable
	}

	now := s.now()
	authorDates := make([]time.Time, 0, len(commits))
	for _, commit := range commits {
		authorDates = append(authorDates, commit.AuthoredAt())
	}

	signals := scoring.Signals{
		RepoAgeDays:              daysBetween(metadata.CreatedAt, now),
		LastPushDaysAgo:          daysBetween(metadata.PushedAt, now),
		CommitCountEstimate:      len(commits),
		Languages:                languages,
		HasReadme:                hasReadme,
		ContributorCountEstimate: len(contributors),
		SuspiciousPatterns:       scoring.DetectSuspiciousPatterns(authorDates),
	}

	s.logger.Info().
		Str("owner", owner).
		Str("repo", repo).
		Int("commit_count", signals.CommitCountEstimate).
		Int("repo_age_days", signals.RepoAgeDays).
		Msg("repository signals collected")

	return signals, nil
}

func daysBetween(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}

	return int(to.Sub(from).Hours() / 24)
}
