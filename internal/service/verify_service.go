package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/observability"
	"github.com/skillchain/skillchain-api/internal/repository"
	"github.com/skillchain/skillchain-api/pkg/canonical"
)

// ErrCredentialNotFound indicates no credential exists for the identifier.
var ErrCredentialNotFound = errors.New("credential not found")

// VerifyService re-verifies issued credentials for anyone holding the
// public credential identifier.
type VerifyService interface {
	Verify(ctx context.Context, credentialID string) (dto.VerifyResponse, error)
}

type verifyService struct {
	credentials repository.CredentialRepository
	pinner      ContentPinner
	logger      zerolog.Logger
}

// NewVerifyService constructs a VerifyService instance.
func NewVerifyService(credRepo repository.CredentialRepository, pinner ContentPinner, logger zerolog.Logger) VerifyService {
	return &verifyService{
		credentials: credRepo,
		pinner:      pinner,
		logger:      logger.With().Str("component", "verify_service").Logger(),
	}
}

// Verify reports two independent assertions: the record exists, and the
// pinned metadata still hashes to the stored digest. A storage fetch failure
// degrades to a null certificate instead of failing the verification.
func (s *verifyService) Verify(ctx context.Context, credentialID string) (dto.VerifyResponse, error) {
	credential, err := s.credentials.GetByCredentialID(ctx, credentialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VerifyResponse{}, ErrCredentialNotFound
		}
		return dto.VerifyResponse{}, err
	}

	var certificate map[string]interface{}
	if payload, err := s.pinner.FetchJSON(ctx, credential.ContentURL); err != nil {
		s.logger.Warn().Err(err).Str("credential_id", credentialID).Msg("pinned metadata fetch degraded")
	} else {
		certificate = payload
	}

	hashMatch := false
	computedHash := ""
	if certificate != nil {
		computedHash, err = canonical.Hash(certificate)
		if err != nil {
			s.logger.Error().Err(err).Str("credential_id", credentialID).Msg("failed to recompute certificate hash")
		} else {
			hashMatch = computedHash == credential.CertificateHash
			if !hashMatch {
				observability.VerificationMismatches().Inc()
				s.logger.Warn().
					Str("credential_id", credentialID).
					Str("stored_hash", credential.CertificateHash).
					Str("computed_hash", computedHash).
					Msg("certificate hash mismatch detected")
			}
		}
	}

	return dto.VerifyResponse{
		Valid:        true,
		HashMatch:    hashMatch,
		StoredHash:   credential.CertificateHash,
		ComputedHash: computedHash,
		Credential:   dto.NewVerifyCredentialDetails(credential),
		Student:      dto.NewUserResponse(credential.Student),
		Skill:        dto.NewSkillResponse(credential.Skill),
		Certificate:  certificate,
	}, nil
}
