package main

import (
	"fmt"
	"strings"

	"learnpath/internal/domain"
)

func renderRoadmap(r domain.Roadmap) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n== %s (%d semanas) ==\n", r.Title, r.DurationWeek))
	if r.Description != "" {
		sb.WriteString(r.Description + "\n")
	}
	if len(r.Prerequisites) > 0 {
		sb.WriteString(fmt.Sprintf("Prerrequisitos: %s\n", strings.Join(r.Prerequisites, ", ")))
	}
	for _, m := range r.Milestones {
		sb.WriteString(fmt.Sprintf("\nSemana %d: %s", m.Week, m.Topic))
		if m.EstimatedTime != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", m.EstimatedTime))
		}
		sb.WriteString("\n  " + m.Description + "\n")
		for _, obj := range m.LearningObjectives {
			sb.WriteString("  * " + obj + "\n")
		}
		for _, res := range m.Resources {
			sb.WriteString(fmt.Sprintf("  - [%s] %s: %s\n", res.Type, res.Title, res.URL))
		}
	}
	return sb.String()
}

func printHistory(msgs []domain.ChatMessage) {
	if len(msgs) == 0 {
		fmt.Println("(historial vacio)")
		return
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
	}
}
