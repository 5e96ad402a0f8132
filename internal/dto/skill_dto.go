package dto

import "github.com/skillchain/skillchain-api/internal/models"

// SkillCreateRequest is the payload for adding a skill to the catalog.
type SkillCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,min=2,max=100,lowercase"`
	Description string `json:"description" validate:"max=2000"`
}

// SkillResponse is the public view of a catalog skill.
type SkillResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// NewSkillResponse maps a skill model to its public view.
func NewSkillResponse(skill models.Skill) SkillResponse {
	return SkillResponse{
		ID:          skill.ID,
		Name:        skill.Name,
		Slug:        skill.Slug,
		Description: skill.Description,
	}
}

// NewSkillResponseSlice maps a slice of skill models.
func NewSkillResponseSlice(skills []models.Skill) []SkillResponse {
	responses := make([]SkillResponse, 0, len(skills))
	for _, skill := range skills {
		responses = append(responses, NewSkillResponse(skill))
	}

	return responses
}
