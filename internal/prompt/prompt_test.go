package prompt

import (
	"strings"
	"testing"

	"learnpath/internal/domain"
)

func TestRoadmapIncludesProfileAndWeeks(t *testing.T) {
	p := Roadmap(domain.UserProfile{
		Goal:           "Aprender Python para data science",
		CurrentLevel:   "Principiante",
		TimeCommitment: "10 horas por semana",
		Constraints:    []string{"sin presupuesto", "solo fines de semana"},
	}, 6)

	for _, want := range []string{
		"Aprender Python para data science",
		"Principiante",
		"10 horas por semana",
		"sin presupuesto; solo fines de semana",
		"de 6 semanas",
		`"duration_week": 6`,
		"exactamente 6 milestones",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(p, "Estilo de aprendizaje") {
		t.Fatalf("expected optional fields omitted when empty")
	}
	if strings.Contains(p, "%!") {
		t.Fatalf("prompt has formatting artifacts: %s", p)
	}
}
