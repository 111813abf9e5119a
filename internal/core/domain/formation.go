package domain

import "time"

// FormationModule is one training session in a group's ordered curriculum.
type FormationModule struct {
	ModuleID    int64      `json:"moduleID" db:"module_id"`
	GroupID     int64      `json:"groupID" db:"group_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Content     string     `json:"content" db:"content"`
	Position    int        `json:"position" db:"position"`
	IsCompleted bool       `json:"isCompleted" db:"is_completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	CompletedBy *int64     `json:"completedBy,omitempty" db:"completed_by"`
	AuditFields
}

// Complete marks the module as taught. A module is completed once.
func (m *FormationModule) Complete(userID int64, now time.Time) error {
	if m.IsCompleted {
		return ErrModuleCompleted
	}
	m.IsCompleted = true
	m.CompletedAt = &now
	m.CompletedBy = &userID
	m.Touch(userID, now)
	return nil
}

// FormationProgress counts completed modules out of the curriculum.
func FormationProgress(modules []FormationModule) (completed, total int) {
	for _, m := range modules {
		if m.IsCompleted {
			completed++
		}
	}
	return completed, len(modules)
}
