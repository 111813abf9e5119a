package dto

import "github.com/SscSPs/avec_backend/internal/core/domain"

// CreateFormationModuleRequest adds a training module to a group's curriculum.
// A zero position appends the module at the end.
type CreateFormationModuleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Position    int    `json:"position" binding:"gte=0"`
}

// ListFormationModulesResponse wraps the curriculum with its progress.
type ListFormationModulesResponse struct {
	Modules   []domain.FormationModule `json:"modules"`
	Completed int                      `json:"completed"`
	Total     int                      `json:"total"`
}
