package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"learnpath/internal/domain"
	"learnpath/internal/llm"
	"learnpath/internal/service"
)

// judgeResponse es la evaluacion estructurada que devuelve el juez.
type judgeResponse struct {
	Reasoning      string `json:"reasoning"`
	RelevanceScore int    `json:"relevance_score"`
	LevelScore     int    `json:"level_score"`
	PacingScore    int    `json:"pacing_score"`
}

// roadmapStats son indicadores calculados sin LLM sobre el roadmap generado.
type roadmapStats struct {
	Resources       int
	InsecureURLs    int
	DistinctDomains int
	Advanced        int
	Beginner        int
}

func evaluateRoadmap(ctx context.Context, judge llm.Client, sc Scenario, roadmap domain.Roadmap) (judgeResponse, error) {
	stats := collectStats(roadmap)
	levelMismatch := detectLevelMismatch(sc.Profile.CurrentLevel, stats)

	heuristicLine := fmt.Sprintf(
		"Indicadores heurísticos: recursos=%d, urls_sin_https=%d, dominios_distintos=%d, desajuste_nivel=%t",
		stats.Resources, stats.InsecureURLs, stats.DistinctDomains, levelMismatch,
	)

	prompt := buildJudgePrompt(sc, formatMilestones(roadmap), heuristicLine)

	raw, err := judge.GenerateText(ctx, prompt)
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := service.ExtractJSON(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("judge returned non-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("parse judge json: %w (raw=%q)", err, jsonStr)
	}

	jr.RelevanceScore = clamp1to5(jr.RelevanceScore)
	jr.LevelScore = clamp1to5(jr.LevelScore)
	jr.PacingScore = clamp1to5(jr.PacingScore)

	// recursos avanzados para un principiante no pueden puntuar alto en nivel
	if levelMismatch && jr.LevelScore > 2 {
		jr.LevelScore = 2
	}

	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func collectStats(roadmap domain.Roadmap) roadmapStats {
	var st roadmapStats
	domains := map[string]struct{}{}
	for _, m := range roadmap.Milestones {
		for _, r := range m.Resources {
			st.Resources++
			switch r.Difficulty {
			case domain.DifficultyAdvanced:
				st.Advanced++
			case domain.DifficultyBeginner:
				st.Beginner++
			}
			u, err := url.Parse(r.URL)
			if err != nil {
				st.InsecureURLs++
				continue
			}
			if u.Scheme != "https" {
				st.InsecureURLs++
			}
			if host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."); host != "" {
				domains[host] = struct{}{}
			}
		}
	}
	st.DistinctDomains = len(domains)
	return st
}

// detectLevelMismatch marca perfiles principiantes cuyo roadmap es mayoritariamente avanzado.
func detectLevelMismatch(level string, st roadmapStats) bool {
	lvl := normalizeASCIIString(strings.ToLower(level))
	beginnerWords := []string{"principiante", "beginner", "basico", "novato", "cero"}
	isBeginner := false
	for _, w := range beginnerWords {
		if strings.Contains(lvl, w) {
			isBeginner = true
			break
		}
	}
	if !isBeginner || st.Resources == 0 {
		return false
	}
	return st.Advanced*2 > st.Resources
}

func formatMilestones(roadmap domain.Roadmap) string {
	var b strings.Builder
	for _, m := range roadmap.Milestones {
		fmt.Fprintf(&b, "Semana %d: %s (%d recursos)\n", m.Week, m.Topic, len(m.Resources))
	}
	return strings.TrimSpace(b.String())
}

func normalizeASCIIString(s string) string {
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
		"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U", "Ñ", "N",
	)
	return replacer.Replace(s)
}

func buildJudgePrompt(sc Scenario, milestones, heuristicLine string) string {
	p := sc.Profile
	return fmt.Sprintf(
		`Eres un evaluador experto de planes de estudio.

Objetivo del estudiante: %s
Nivel actual: %s
Tiempo disponible: %s
Estilo de aprendizaje: %s
Semanas solicitadas: %d
Expectativa del escenario: %s

Roadmap generado:
%s

%s

Evalúa (1-5):
1) Relevancia: ¿los temas llevan al objetivo declarado?
2) Nivel: ¿la dificultad parte del nivel actual del estudiante?
   - Si desajuste_nivel=true => Nivel máximo 2/5.
3) Ritmo: ¿la carga semanal es realista para el tiempo disponible?

Responde SOLO JSON (sin markdown):
{
  "reasoning": "...",
  "relevance_score": 0,
  "level_score": 0,
  "pacing_score": 0
}`,
		p.Goal, p.CurrentLevel, p.TimeCommitment, p.LearningStyle, sc.Weeks, sc.Expected, milestones, heuristicLine,
	)
}
