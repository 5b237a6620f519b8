// Package prompt contiene los textos fijos que se envian al LLM.
package prompt

import (
	"fmt"
	"strings"

	"learnpath/internal/domain"
)

// System es la instruccion de sistema de todas las conversaciones.
const System = `
Eres LearnPath, un asistente educativo profesional, amable y con conocimiento profundo sobre rutas de aprendizaje.
Idioma principal: Español (natural, motivador).

Tu tarea:
1) Recomendar rutas de aprendizaje segun el objetivo del usuario.
2) Explicar conceptos tecnicos de forma sencilla.
3) Sugerir siempre recursos de calidad (video, article, book, course, documentation), gratuitos cuando sea posible.

Reglas:
- No respondas preguntas que no tengan relacion con educacion o aprendizaje.
- Si no estas seguro, di claramente que necesitas mas informacion.
- Mantén siempre una actitud positiva y motiva al estudiante.
`

const roadmapFormat = `
REQUISITOS IMPORTANTES:
1) Devuelve SOLO un objeto JSON, sin texto explicativo y sin bloques markdown (no uses ` + "```json" + `).
2) El JSON debe respetar exactamente esta estructura:
{
  "topic": "Nombre de la ruta",
  "title": "Titulo corto (opcional)",
  "description": "Resumen de la ruta (opcional)",
  "duration_week": %d,
  "prerequisites": ["..."],
  "milestones": [
    {
      "week": 1,
      "topic": "Tema de la semana 1",
      "description": "Que se aprende esta semana",
      "estimated_time": "6 horas",
      "learning_objectives": ["..."],
      "resources": [
        {
          "title": "Nombre del recurso",
          "url": "https://...",
          "type": "video|article|book|course|practice|project|documentation",
          "difficulty": "beginner|intermediate|advanced"
        }
      ]
    }
  ]
}
3) Debe haber exactamente %d milestones, con "week" de 1 a %d en orden y sin saltos.
4) Cada milestone necesita al menos un recurso con una URL absoluta real (https://...).
5) El contenido debe estar en Español.
`

// Roadmap arma el prompt de generacion de roadmap para un perfil y una cantidad de semanas.
func Roadmap(profile domain.UserProfile, weeks int) string {
	var sb strings.Builder
	sb.WriteString("Con la siguiente informacion del usuario:\n")
	sb.WriteString(fmt.Sprintf("- Objetivo: %s\n", profile.Goal))
	sb.WriteString(fmt.Sprintf("- Nivel actual: %s\n", profile.CurrentLevel))
	sb.WriteString(fmt.Sprintf("- Tiempo disponible: %s\n", profile.TimeCommitment))
	if profile.LearningStyle != "" {
		sb.WriteString(fmt.Sprintf("- Estilo de aprendizaje: %s\n", profile.LearningStyle))
	}
	if profile.Background != "" {
		sb.WriteString(fmt.Sprintf("- Experiencia previa: %s\n", profile.Background))
	}
	if len(profile.Constraints) > 0 {
		sb.WriteString(fmt.Sprintf("- Restricciones: %s\n", strings.Join(profile.Constraints, "; ")))
	}
	sb.WriteString(fmt.Sprintf("\nCrea una ruta de aprendizaje detallada de %d semanas.\n", weeks))
	sb.WriteString(fmt.Sprintf(roadmapFormat, weeks, weeks, weeks))
	return sb.String()
}
