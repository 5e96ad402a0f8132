package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/dto"
	"github.com/skillchain/skillchain-api/internal/repository"
)

// CredentialService exposes a student's own issued credentials.
type CredentialService interface {
	ListMine(ctx context.Context, studentID uint) ([]dto.CredentialResponse, error)
}

type credentialService struct {
	credentials repository.CredentialRepository
	logger      zerolog.Logger
}

// NewCredentialService constructs a CredentialService instance.
func NewCredentialService(credentialRepo repository.CredentialRepository, logger zerolog.Logger) CredentialService {
	return &credentialService{
		credentials: credentialRepo,
		logger:      logger.With().Str("component", "credential_service").Logger(),
	}
}

func (s *credentialService) ListMine(ctx context.Context, studentID uint) ([]dto.CredentialResponse, error) {
	credentials, err := s.credentials.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewCredentialResponseSlice(credentials), nil
}
