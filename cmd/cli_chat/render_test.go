package main

import (
	"errors"
	"strings"
	"testing"

	"learnpath/internal/domain"
)

func TestRenderRoadmap(t *testing.T) {
	out := renderRoadmap(domain.Roadmap{
		Title:         "Go en 2 semanas",
		DurationWeek:  2,
		Prerequisites: []string{"Terminal", "Git"},
		Milestones: []domain.Milestone{
			{Week: 1, Topic: "Sintaxis", Description: "Tipos y funciones", EstimatedTime: "5 horas",
				Resources: []domain.Resource{{Title: "Tour", URL: "https://go.dev/tour", Type: domain.ResourcePractice}}},
			{Week: 2, Topic: "Concurrencia", Description: "Goroutines",
				LearningObjectives: []string{"Usar channels"},
				Resources:          []domain.Resource{{Title: "Effective Go", URL: "https://go.dev/doc/effective_go", Type: domain.ResourceDocumentation}}},
		},
	})
	for _, want := range []string{
		"== Go en 2 semanas (2 semanas) ==",
		"Prerrequisitos: Terminal, Git",
		"Semana 1: Sintaxis (5 horas)",
		"  - [practice] Tour: https://go.dev/tour",
		"  * Usar channels",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "Semana 1") > strings.Index(out, "Semana 2") {
		t.Fatalf("expected milestones in order")
	}
}

func TestDescribeError(t *testing.T) {
	if got := describeError(domain.NewValidationError("goal", "goal is required")); got != "goal: goal is required" {
		t.Fatalf("unexpected description %q", got)
	}
	sErr := domain.NewServiceError(domain.CodeEmptyResponse, "llm returned an empty response", nil)
	if got := describeError(sErr); !strings.Contains(got, domain.CodeEmptyResponse) {
		t.Fatalf("unexpected description %q", got)
	}
	if got := describeError(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected description %q", got)
	}
}
