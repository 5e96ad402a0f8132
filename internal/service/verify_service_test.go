package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/pkg/canonical"
)

func issuedCredential(t *testing.T, certificate map[string]interface{}) models.Credential {
	t.Helper()

	hash, err := canonical.Hash(certificate)
	require.NoError(t, err)

	return models.Credential{
		ID:              1,
		StudentID:       10,
		SkillID:         3,
		Score:           85,
		ContentID:       "bafytestcid",
		ContentURL:      "https://w3s.link/ipfs/bafytestcid",
		CredentialID:    "cred-0001",
		CertificateHash: hash,
		IssuedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Student:         models.User{ID: 10, Name: "Ada", Role: models.RoleStudent},
		Skill:           models.Skill{ID: 3, Name: "Go Backend", Slug: "go-backend"},
	}
}

func TestVerifyServiceHashMatch(t *testing.T) {
	certificate := map[string]interface{}{
		"credentialId": "cred-0001",
		"studentName":  "Ada",
		"skillSlug":    "go-backend",
		"score":        85,
	}

	credRepo := &credentialRepoStub{issued: []models.Credential{issuedCredential(t, certificate)}}
	pinner := &pinnerStub{fetched: certificate}

	svc := NewVerifyService(credRepo, pinner, testLogger())

	result, err := svc.Verify(context.Background(), "cred-0001")
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.True(t, result.HashMatch)
	require.Equal(t, result.StoredHash, result.ComputedHash)
	require.Equal(t, "Ada", result.Student.Name)
	require.NotNil(t, result.Certificate)
}

func TestVerifyServiceDetectsTamperedCertificate(t *testing.T) {
	original := map[string]interface{}{
		"credentialId": "cred-0001",
		"score":        85,
	}
	tampered := map[string]interface{}{
		"credentialId": "cred-0001",
		"score":        100,
	}

	credRepo := &credentialRepoStub{issued: []models.Credential{issuedCredential(t, original)}}
	pinner := &pinnerStub{fetched: tampered}

	svc := NewVerifyService(credRepo, pinner, testLogger())

	result, err := svc.Verify(context.Background(), "cred-0001")
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.False(t, result.HashMatch)
	require.NotEqual(t, result.StoredHash, result.ComputedHash)
}

func TestVerifyServiceDegradesWhenStorageUnreachable(t *testing.T) {
	certificate := map[string]interface{}{"credentialId": "cred-0001"}
	credRepo := &credentialRepoStub{issued: []models.Credential{issuedCredential(t, certificate)}}

	svc := NewVerifyService(credRepo, &pinnerStub{}, testLogger())

	result, err := svc.Verify(context.Background(), "cred-0001")
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.False(t, result.HashMatch)
	require.Nil(t, result.Certificate)
	require.Empty(t, result.ComputedHash)
}

func TestVerifyServiceUnknownCredential(t *testing.T) {
	svc := NewVerifyService(&credentialRepoStub{}, &pinnerStub{}, testLogger())

	_, err := svc.Verify(context.Background(), "cred-missing")
	require.ErrorIs(t, err, ErrCredentialNotFound)
}
