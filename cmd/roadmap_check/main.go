// roadmap_check genera roadmaps para perfiles de ejemplo y los hace puntuar por un LLM juez.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"learnpath/internal/config"
	"learnpath/internal/domain"
	"learnpath/internal/llm"
	"learnpath/internal/logging"
	"learnpath/internal/prompt"
	"learnpath/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

type Scenario struct {
	Name     string
	Profile  domain.UserProfile
	Weeks    int
	Expected string
}

var scenarios = []Scenario{
	{
		Name: "principiante python",
		Profile: domain.UserProfile{
			Goal:           "Aprender Python para análisis de datos",
			CurrentLevel:   "Principiante, nunca programé",
			TimeCommitment: "5 horas por semana",
			LearningStyle:  "Videos y ejercicios prácticos",
		},
		Weeks:    4,
		Expected: "Empieza por sintaxis básica, recursos introductorios, nada de temas avanzados en las primeras semanas",
	},
	{
		Name: "backend go intermedio",
		Profile: domain.UserProfile{
			Goal:           "Construir APIs REST en Go listas para producción",
			CurrentLevel:   "Intermedio, programo en Java hace 3 años",
			TimeCommitment: "10 horas por semana",
			Background:     "Desarrollador backend",
		},
		Weeks:    6,
		Expected: "Salta lo básico de programación, cubre concurrencia, testing y despliegue",
	},
	{
		Name: "frontend con poco tiempo",
		Profile: domain.UserProfile{
			Goal:           "Hacer mi primera web con React",
			CurrentLevel:   "Sé HTML y CSS básico",
			TimeCommitment: "2 horas por semana",
			Constraints:    []string{"Solo recursos gratuitos", "Contenido en español"},
		},
		Weeks:    3,
		Expected: "Ritmo liviano, recursos gratuitos, foco en un proyecto pequeño",
	},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LogOutput == "stdout" {
		cfg.LogOutput = "stderr"
	}
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	generator, err := llm.NewGateway(ctx, cfg.LLMConfig(prompt.System), logger)
	if err != nil {
		logger.Fatal("llm gateway init", zap.Error(err))
	}
	judge, err := llm.NewGateway(ctx, cfg.LLMConfig(""), logger)
	if err != nil {
		logger.Fatal("judge gateway init", zap.Error(err))
	}

	roadmaps := service.NewRoadmapService(generator, nil, nil, logger)

	res := runScenarios(ctx, roadmaps, judge, scenarios, logger)
	if res.Evaluated == 0 {
		os.Exit(1)
	}
}

type runResult struct {
	Evaluated      int
	Rejected       int
	TotalRelevance int
	TotalLevel     int
	TotalPacing    int
}

func runScenarios(ctx context.Context, roadmaps *service.RoadmapService, judge llm.Client, scs []Scenario, logger *zap.Logger) runResult {
	var res runResult
	for _, sc := range scs {
		fmt.Printf("%s[%s]%s %s (%d semanas)\n", colorCyan, sc.Name, colorReset, sc.Profile.Goal, sc.Weeks)

		stored, err := roadmaps.Generate(ctx, sc.Profile, sc.Weeks)
		if err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				// el modelo produjo un roadmap que no pasa validacion
				res.Rejected++
				fmt.Printf("%sRechazado%s %s: %s\n\n", colorRed, colorReset, vErr.Field, vErr.Message)
				continue
			}
			logger.Error("roadmap generation failed", zap.String("scenario", sc.Name), zap.Error(err))
			continue
		}
		fmt.Printf("%s[Roadmap]%s %s\n", colorGreen, colorReset, stored.Roadmap.Title)

		jr, err := evaluateRoadmap(ctx, judge, sc, stored.Roadmap)
		if err != nil {
			logger.Error("judge failed", zap.String("scenario", sc.Name), zap.Error(err))
			continue
		}

		fmt.Printf("%sJuez%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Relevancia %d/5 | Nivel %d/5 | Ritmo %d/5\n\n", jr.RelevanceScore, jr.LevelScore, jr.PacingScore)

		res.Evaluated++
		res.TotalRelevance += jr.RelevanceScore
		res.TotalLevel += jr.LevelScore
		res.TotalPacing += jr.PacingScore
	}

	fmt.Println("==== Promedios ====")
	if res.Evaluated == 0 {
		fmt.Printf("Sin roadmaps evaluados (rechazados: %d)\n", res.Rejected)
		return res
	}
	n := float64(res.Evaluated)
	fmt.Printf("Relevancia: %.2f/5 | Nivel: %.2f/5 | Ritmo: %.2f/5 | Rechazados: %d\n",
		float64(res.TotalRelevance)/n, float64(res.TotalLevel)/n, float64(res.TotalPacing)/n, res.Rejected)
	return res
}
