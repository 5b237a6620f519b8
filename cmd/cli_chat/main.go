package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"learnpath/internal/config"
	"learnpath/internal/domain"
	"learnpath/internal/llm"
	"learnpath/internal/logging"
	"learnpath/internal/prompt"
	"learnpath/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	// el chat usa stdout; los logs van a stderr
	if cfg.LogOutput == "stdout" {
		cfg.LogOutput = "stderr"
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	gateway, err := llm.NewGateway(ctx, cfg.LLMConfig(prompt.System), logger)
	if err != nil {
		log.Fatalf("inicializar LLM: %v", err)
	}

	registry := service.NewSessionRegistry(gateway, cfg.ChatMaxInputLength, logger)
	roadmapSvc := service.NewRoadmapService(gateway, nil, nil, logger)
	session := registry.Create()

	fmt.Println("---- LearnPath (escribe 'exit' para terminar) ----")
	fmt.Println("Comandos: /roadmap, /history, /clear, exit")
	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		text = strings.TrimSpace(text)

		switch strings.ToLower(text) {
		case "exit", "salir":
			fmt.Println("Hasta luego!")
			return
		case "/history":
			printHistory(session.Messages())
			continue
		case "/clear":
			session.Clear()
			fmt.Println("Historial borrado.")
			continue
		case "/roadmap":
			if err := roadmapFlow(ctx, reader, roadmapSvc); err != nil {
				logger.Warn("roadmap flow failed", zap.Error(err))
				fmt.Printf("No se pudo generar el roadmap: %s\n", describeError(err))
			}
			continue
		}

		fmt.Print("LearnPath > ")
		for chunk := range session.Send(ctx, text) {
			fmt.Print(chunk)
		}
		fmt.Println()
	}
}

func roadmapFlow(ctx context.Context, reader *bufio.Reader, roadmapSvc *service.RoadmapService) error {
	profile := domain.UserProfile{
		Goal:           readLine(reader, "Objetivo de aprendizaje: "),
		CurrentLevel:   readLine(reader, "Nivel actual (ej: principiante, intermedio): "),
		TimeCommitment: readLine(reader, "Tiempo disponible (ej: 5 horas por semana): "),
		LearningStyle:  readLine(reader, "Estilo de aprendizaje (opcional): "),
	}
	weeks := readIntDefault(reader, "Duracion en semanas (default 4): ", 4)

	fmt.Println("Generando roadmap...")
	stored, err := roadmapSvc.Generate(ctx, profile, weeks)
	if err != nil {
		return err
	}
	fmt.Print(renderRoadmap(stored.Roadmap))
	return nil
}

func readLine(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readIntDefault(reader *bufio.Reader, label string, def int) int {
	line := readLine(reader, label)
	if line == "" {
		return def
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		return def
	}
	return v
}

func describeError(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		if vErr.Field != "" {
			return fmt.Sprintf("%s: %s", vErr.Field, vErr.Message)
		}
		return vErr.Message
	}
	var sErr *domain.ServiceError
	if errors.As(err, &sErr) {
		return fmt.Sprintf("el servicio de IA no respondio (%s)", sErr.Code())
	}
	return err.Error()
}
