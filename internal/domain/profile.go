package domain

import "strings"

// UserProfile es el input del usuario para generar un roadmap personalizado.
type UserProfile struct {
	Goal           string   `json:"goal" validate:"required,max=500"`
	CurrentLevel   string   `json:"current_level" validate:"required,max=100"`
	TimeCommitment string   `json:"time_commitment" validate:"required,max=100"`
	LearningStyle  string   `json:"learning_style,omitempty" validate:"omitempty,max=200"`
	Background     string   `json:"background,omitempty" validate:"omitempty,max=1000"`
	Constraints    []string `json:"constraints,omitempty" validate:"omitempty,dive,max=200"`
}

// Normalize devuelve una copia con espacios recortados y restricciones vacias descartadas.
func (p UserProfile) Normalize() UserProfile {
	out := UserProfile{
		Goal:           strings.TrimSpace(p.Goal),
		CurrentLevel:   strings.TrimSpace(p.CurrentLevel),
		TimeCommitment: strings.TrimSpace(p.TimeCommitment),
		LearningStyle:  strings.TrimSpace(p.LearningStyle),
		Background:     strings.TrimSpace(p.Background),
	}
	for _, c := range p.Constraints {
		if c = strings.TrimSpace(c); c != "" {
			out.Constraints = append(out.Constraints, c)
		}
	}
	return out
}

func (p UserProfile) Validate() error {
	return validateStruct(p)
}
