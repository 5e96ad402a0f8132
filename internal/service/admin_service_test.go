package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/repository"
	"github.com/skillchain/skillchain-api/pkg/canonical"
	"github.com/skillchain/skillchain-api/pkg/ipfs"
	"github.com/skillchain/skillchain-api/pkg/ledger"
)

type submissionRepoStub struct {
	submissions map[uint]models.Submission
	updated     *models.Submission
}

func newSubmissionRepoStub(submissions ...models.Submission) *submissionRepoStub {
	stub := &submissionRepoStub{submissions: map[uint]models.Submission{}}
	for _, submission := range submissions {
		stub.submissions[submission.ID] = submission
	}
	return stub
}

func (s *submissionRepoStub) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = uint(len(s.submissions) + 1)
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *submissionRepoStub) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := s.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (s *submissionRepoStub) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range s.submissions {
		if submission.StudentID == studentID {
			result = append(result, submission)
		}
	}
	return result, nil
}

func (s *submissionRepoStub) ListPending(ctx context.Context) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range s.submissions {
		if submission.Status == models.SubmissionStatusPending {
			result = append(result, submission)
		}
	}
	return result, nil
}

func (s *submissionRepoStub) ListApprovedByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range s.submissions {
		if submission.StudentID == studentID && submission.Status == models.SubmissionStatusApproved {
			result = append(result, submission)
		}
	}
	return result, nil
}

func (s *submissionRepoStub) ExistsActiveForStudentAndSkill(ctx context.Context, studentID, skillID uint) (bool, error) {
	for _, submission := range s.submissions {
		if submission.StudentID == studentID && submission.SkillID == skillID && submission.Status != models.SubmissionStatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (s *submissionRepoStub) Update(ctx context.Context, submission *models.Submission) error {
	s.submissions[submission.ID] = *submission
	s.updated = submission
	return nil
}

type credentialRepoStub struct {
	subs     *submissionRepoStub
	issued   []models.Credential
	issueErr error
}

/// Issue mirrors the transactional repository: the credential insert and the
// submission flip land together or not at all.
func (c *credentialRepoStub) Issue(ctx context.Context, credential *models.Credential, submission *models.Submission) error {
	if c.issueErr != nil {
		return c.issueErr
	}
	credential.ID = uint(len(c.issued) + 1)
	c.issued = append(c.issued, *credential)
	if c.subs != nil {
		c.subs.submissions[submission.ID] = *submission
	}
	return nil
}

func (c *credentialRepoStub) GetByCredentialID(ctx context.Context, credentialID string) (models.Credential, error) {
	for _, credential := range c.issued {
		if credential.CredentialID == credentialID {
			return credential, nil
		}
	}
	return models.Credential{}, gorm.ErrRecordNotFound
}

func (c *credentialRepoStub) ListByStudent(ctx context.Context, studentID uint) ([]models.Credential, error) {
	var result []models.Credential
	for _, credential := range c.issued {
		if credential.StudentID == studentID {
			result = append(result, credential)
		}
	}
	return result, nil
}

func (c *credentialRepoStub) Search(ctx context.Context, filter repository.CandidateFilter) ([]models.Credential, int64, error) {
	return c.issued, int64(len(c.issued)), nil
}

type userRepoStub struct {
	users map[uint]models.User
}

func newUserRepoStub(users ...models.User) *userRepoStub {
	stub := &userRepoStub{users: map[uint]models.User{}}
	for _, user := range users {
		stub.users[user.ID] = user
	}
	return stub
}

func (u *userRepoStub) Create(ctx context.Context, user *models.User) error {
	user.ID = uint(len(u.users) + 1)
	u.users[user.ID] = *user
	return nil
}

func (u *userRepoStub) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (u *userRepoStub) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range u.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

type skillRepoStub struct {
	skills map[uint]models.Skill
}

func newSkillRepoStub(skills ...models.Skill) *skillRepoStub {
	stub := &skillRepoStub{skills: map[uint]models.Skill{}}
	for _, skill := range skills {
		stub.skills[skill.ID] = skill
	}
	return stub
}

func (s *skillRepoStub) Create(ctx context.Context, skill *models.Skill) error {
	skill.ID = uint(len(s.skills) + 1)
	s.skills[skill.ID] = *skill
	return nil
}

func (s *skillRepoStub) List(ctx context.Context) ([]models.Skill, error) {
	var result []models.Skill
	for _, skill := range s.skills {
		result = append(result, skill)
	}
	return result, nil
}

func (s *skillRepoStub) GetByID(ctx context.Context, id uint) (models.Skill, error) {
	skill, ok := s.skills[id]
	if !ok {
		return models.Skill{}, gorm.ErrRecordNotFound
	}
	return skill, nil
}

func (s *skillRepoStub) GetBySlug(ctx context.Context, slug string) (models.Skill, error) {
	for _, skill := range s.skills {
		if skill.Slug == slug {
			return skill, nil
		}
	}
	return models.Skill{}, gorm.ErrRecordNotFound
}

type pinnerStub struct {
	err     error
	pinned  interface{}
	fetched map[string]interface{}
}

func (p *pinnerStub) PinJSON(ctx context.Context, payload interface{}) (ipfs.PinResult, error) {
	if p.err != nil {
		return ipfs.PinResult{}, p.err
	}
	p.pinned = payload
	return ipfs.PinResult{CID: "bafytestcid", URL: "https://w3s.link/ipfs/bafytestcid"}, nil
}

func (p *pinnerStub) FetchJSON(ctx context.Context, contentURL string) (map[string]interface{}, error) {
	if p.fetched == nil {
		return nil, errors.New("not found")
	}
	return p.fetched, nil
}

type minterStub struct {
	err    error
	params ledger.MintParams
}

func (m *minterStub) Mint(ctx context.Context, params ledger.MintParams) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.params = params
	return "0xdeadbeef", nil
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newAdminFixture(t *testing.T, minScore int) (*adminService, *submissionRepoStub, *credentialRepoStub, *pinnerStub, *minterStub) {
	t.Helper()

	student := models.User{ID: 10, Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent, WalletAddress: "0xabc"}
	reviewer := models.User{ID: 99, Name: "Root", Email: "root@example.com", Role: models.RoleAdmin}
	skill := models.Skill{ID: 3, Name: "Go Backend", Slug: "go-backend"}
	submission := models.Submission{
		ID:              1,
		StudentID:       student.ID,
		SkillID:         skill.ID,
		RepoURL:         "https://github.com/ada/proof",
		Status:          models.SubmissionStatusPending,
		ConfidenceScore: 85,
		LedgerStatus:    models.LedgerStatusNotStarted,
	}

	subRepo := newSubmissionRepoStub(submission)
	credRepo := &credentialRepoStub{subs: subRepo}
	pinner := &pinnerStub{}
	minter := &minterStub{}

	svc := NewAdminService(
		subRepo,
		credRepo,
		newUserRepoStub(student, reviewer),
		newSkillRepoStub(skill),
		pinner,
		minter,
		NewCredentialEvents(nil, "", testLogger()),
		"SkillChain Admin",
		minScore,
		testLogger(),
	).(*adminService)
	svc.now = fixedClock()
	svc.newID = func() string { return "cred-0001" }

	return svc, subRepo, credRepo, pinner, minter
}

func TestAdminServiceApproveIssuesCredential(t *testing.T) {
	svc, _, credRepo, pinner, minter := newAdminFixture(t, 0)

	approved, err := svc.Approve(context.Background(), 1, 99)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, approved.Status)
	require.True(t, approved.IsVisibleToEmployers)
	require.Equal(t, models.LedgerStatusMinted, approved.LedgerStatus)
	require.NotNil(t, approved.ReviewedBy)
	require.Equal(t, uint(99), *approved.ReviewedBy)

	require.Len(t, credRepo.issued, 1)
	credential := credRepo.issued[0]
	require.Equal(t, "cred-0001", credential.CredentialID)
	require.Equal(t, "bafytestcid", credential.ContentID)
	require.Equal(t, "0xdeadbeef", credential.LedgerTxRef)
	require.Equal(t, 85, credential.Score)

	require.Equal(t, "go-backend", minter.params.SkillSlug)
	require.Equal(t, "bafytestcid", minter.params.ContentRef)

	// The stored hash must be the canonical hash of the exact pinned object.
	expectedHash, err := canonical.Hash(pinner.pinned)
	require.NoError(t, err)
	require.Equal(t, expectedHash, credential.CertificateHash)
}

func TestAdminServiceApprovePinFailureLeavesPending(t *testing.T) {
	svc, subRepo, credRepo, pinner, _ := newAdminFixture(t, 0)
	pinner.err = errors.New("storage down")

	_, err := svc.Approve(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrIssuanceFailed)

	require.Empty(t, credRepo.issued)
	remaining, err := subRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusPending, remaining.Status)
	require.False(t, remaining.IsVisibleToEmployers)
}

func TestAdminServiceApproveLedgerFailureStillIssues(t *testing.T) {
	svc, _, credRepo, _, minter := newAdminFixture(t, 0)
	minter.err = errors.New("signer unreachable")

	approved, err := svc.Approve(context.Background(), 1, 99)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, approved.Status)
	require.Equal(t, models.LedgerStatusFailed, approved.LedgerStatus)

	require.Len(t, credRepo.issued, 1)
	require.Equal(t, "unanchored-cred-0001", credRepo.issued[0].LedgerTxRef)
}

func TestAdminServiceApproveRejectsProcessedSubmission(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture(t, 0)

	_, err := svc.Approve(context.Background(), 1, 99)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = svc.Reject(context.Background(), 1, 99, dto.RejectSubmissionRequest{Reason: "late"})
	require.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestAdminServiceApproveEnforcesMinScore(t *testing.T) {
	svc, _, credRepo, _, _ := newAdminFixture(t, 90)

	_, err := svc.Approve(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrScoreBelowMinimum)
	require.Empty(t, credRepo.issued)
}

func TestAdminServiceApproveUnknownSubmission(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture(t, 0)

	_, err := svc.Approve(context.Background(), 42, 99)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestAdminServiceRejectSanitizesNotes(t *testing.T) {
	svc, subRepo, _, _, _ := newAdminFixture(t, 0)

	rejected, err := svc.Reject(context.Background(), 1, 99, dto.RejectSubmissionRequest{
		Reason: "<script>alert('x')</script>repo is a fork",
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusRejected, rejected.Status)
	require.False(t, rejected.IsVisibleToEmployers)
	require.Equal(t, "repo is a fork", rejected.ReviewNotes)
	require.NotNil(t, subRepo.updated)
	require.Equal(t, models.SubmissionStatusRejected, subRepo.updated.Status)
}

func TestAdminServiceMetadataIsDeterministic(t *testing.T) {
	student := models.User{Name: "Ada", WalletAddress: ""}
	skill := models.Skill{Name: "Go Backend", Slug: "go-backend"}
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := buildCredentialMetadata(student, skill, 85, "cred-0001", issuedAt, "SkillChain Admin")
	second := buildCredentialMetadata(student, skill, 85, "cred-0001", issuedAt, "SkillChain Admin")

	firstHash, err := canonical.Hash(first)
	require.NoError(t, err)
	secondHash, err := canonical.Hash(second)
	require.NoError(t, err)
	require.Equal(t, firstHash, secondHash)

	// Missing wallets pin the zero address so the metadata shape is stable.
	require.Equal(t, zeroWalletAddress, first["studentWallet"])
}
