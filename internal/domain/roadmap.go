package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ResourceType string

const (
	ResourceVideo         ResourceType = "video"
	ResourceArticle       ResourceType = "article"
	ResourceBook          ResourceType = "book"
	ResourceCourse        ResourceType = "course"
	ResourcePractice      ResourceType = "practice"
	ResourceProject       ResourceType = "project"
	ResourceDocumentation ResourceType = "documentation"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Resource es un material recomendado dentro de un milestone.
type Resource struct {
	Title       string       `json:"title" validate:"required,max=200"`
	URL         string       `json:"url" validate:"required,http_url"`
	Type        ResourceType `json:"type" validate:"required,oneof=video article book course practice project documentation"`
	Description string       `json:"description,omitempty" validate:"omitempty,max=1000"`
	Difficulty  Difficulty   `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// Milestone representa una semana del roadmap.
type Milestone struct {
	Week               int        `json:"week" validate:"min=1"`
	Topic              string     `json:"topic" validate:"required,max=200"`
	Description        string     `json:"description" validate:"required,max=2000"`
	Resources          []Resource `json:"resources" validate:"min=1,dive"`
	EstimatedTime      string     `json:"estimated_time,omitempty" validate:"omitempty,max=100"`
	LearningObjectives []string   `json:"learning_objectives,omitempty" validate:"omitempty,dive,max=300"`
}

// Roadmap es el artefacto que el LLM debe producir. Solo se obtiene via NewRoadmap o ParseRoadmap,
// que garantizan semanas 1..N y len(Milestones) == DurationWeek.
type Roadmap struct {
	Topic         string      `json:"topic" validate:"required,max=200"`
	Title         string      `json:"title" validate:"omitempty,max=200"`
	Description   string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	DurationWeek  int         `json:"duration_week" validate:"min=1"`
	Milestones    []Milestone `json:"milestones" validate:"min=1,dive"`
	Prerequisites []string    `json:"prerequisites,omitempty" validate:"omitempty,dive,max=300"`
	CreatedAt     time.Time   `json:"created_at"`
}

// StoredRoadmap es un roadmap aceptado junto con el perfil que lo origino.
type StoredRoadmap struct {
	ID        string      `json:"id"`
	Profile   UserProfile `json:"profile"`
	Roadmap   Roadmap     `json:"roadmap"`
	CreatedAt time.Time   `json:"created_at"`
}

var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// roadmapDoc y milestoneDoc reflejan el JSON del modelo con las listas anidadas sin decodificar,
// para que un error de tipo se reporte con el indice del elemento. created_at no se lee:
// lo asigna el servidor.
type roadmapDoc struct {
	Topic         string            `json:"topic"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	DurationWeek  int               `json:"duration_week"`
	Milestones    []json.RawMessage `json:"milestones"`
	Prerequisites []string          `json:"prerequisites"`
}

type milestoneDoc struct {
	Week               int               `json:"week"`
	Topic              string            `json:"topic"`
	Description        string            `json:"description"`
	Resources          []json.RawMessage `json:"resources"`
	EstimatedTime      string            `json:"estimated_time"`
	LearningObjectives []string          `json:"learning_objectives"`
}

// ParseRoadmap convierte la salida cruda del modelo en un Roadmap valido.
// Primero valida estructura y campos; las reglas entre campos solo corren si eso pasa.
func ParseRoadmap(raw []byte) (Roadmap, error) {
	var doc roadmapDoc
	if err := decodeAt("", raw, &doc); err != nil {
		return Roadmap{}, err
	}
	r := Roadmap{
		Topic:         doc.Topic,
		Title:         doc.Title,
		Description:   doc.Description,
		DurationWeek:  doc.DurationWeek,
		Prerequisites: doc.Prerequisites,
	}
	if doc.Milestones != nil {
		r.Milestones = make([]Milestone, len(doc.Milestones))
	}
	for i, rawMilestone := range doc.Milestones {
		m, err := parseMilestone(fmt.Sprintf("milestones[%d]", i), rawMilestone)
		if err != nil {
			return Roadmap{}, err
		}
		r.Milestones[i] = m
	}
	return NewRoadmap(r)
}

func parseMilestone(path string, raw json.RawMessage) (Milestone, error) {
	var doc milestoneDoc
	if err := decodeAt(path, raw, &doc); err != nil {
		return Milestone{}, err
	}
	m := Milestone{
		Week:               doc.Week,
		Topic:              doc.Topic,
		Description:        doc.Description,
		EstimatedTime:      doc.EstimatedTime,
		LearningObjectives: doc.LearningObjectives,
	}
	if doc.Resources != nil {
		m.Resources = make([]Resource, len(doc.Resources))
	}
	for j, rawResource := range doc.Resources {
		if err := decodeAt(fmt.Sprintf("%s.resources[%d]", path, j), rawResource, &m.Resources[j]); err != nil {
			return Milestone{}, err
		}
	}
	return m, nil
}

func decodeAt(path string, raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return jsonValidationError(path, err)
	}
	return nil
}

// NewRoadmap aplica defaults y todas las validaciones. Nunca devuelve un Roadmap parcialmente valido.
func NewRoadmap(r Roadmap) (Roadmap, error) {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = r.Topic
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	if err := validateStruct(r); err != nil {
		return Roadmap{}, err
	}
	if err := checkSequentialWeeks(r.Milestones); err != nil {
		return Roadmap{}, err
	}
	if len(r.Milestones) != r.DurationWeek {
		return Roadmap{}, NewValidationError("milestones",
			"milestone count %d does not match duration_week %d", len(r.Milestones), r.DurationWeek)
	}
	return r, nil
}

func checkSequentialWeeks(milestones []Milestone) error {
	got := make([]int, len(milestones))
	want := make([]int, len(milestones))
	sequential := true
	for i, m := range milestones {
		got[i] = m.Week
		want[i] = i + 1
		if m.Week != i+1 {
			sequential = false
		}
	}
	if sequential {
		return nil
	}
	return NewValidationError("milestones",
		"milestone weeks must be sequential starting at 1: got %s, expected %s", formatInts(got), formatInts(want))
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func validateStruct(s any) error {
	err := schemaValidator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Message: describeFieldError(fe), Err: err}
}

// fieldPath quita el nombre del tipo raiz: "Roadmap.milestones[0].week" -> "milestones[0].week".
func fieldPath(namespace string) string {
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return fmt.Sprintf("must be a valid http(s) URL, got %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s, got %v", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	default:
		return fmt.Sprintf("failed on %q validation", fe.Tag())
	}
}

func jsonValidationError(path string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		switch {
		case path == "":
		case field == "":
			field = path
		default:
			field = path + "." + field
		}
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			Err:     err,
		}
	}
	return &ValidationError{Field: path, Message: "invalid roadmap JSON: " + err.Error(), Err: err}
}
