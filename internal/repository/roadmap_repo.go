package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath/internal/domain"
)

type RoadmapRepository interface {
	Create(ctx context.Context, roadmap domain.StoredRoadmap) error
	GetByID(ctx context.Context, id string) (domain.StoredRoadmap, error)
	List(ctx context.Context, limit int) ([]domain.StoredRoadmap, error)
}

// PgRoadmapRepository guarda perfil y roadmap como JSONB; goal y topic quedan en columnas para listar.
type PgRoadmapRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoadmapRepository(pool *pgxpool.Pool) *PgRoadmapRepository {
	return &PgRoadmapRepository{pool: pool}
}

func (r *PgRoadmapRepository) Create(ctx context.Context, stored domain.StoredRoadmap) error {
	profileJSON, err := json.Marshal(stored.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	roadmapJSON, err := json.Marshal(stored.Roadmap)
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}

	const query = `
		INSERT INTO roadmaps (id, goal, topic, duration_week, profile, roadmap, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		stored.ID,
		stored.Profile.Goal,
		stored.Roadmap.Topic,
		stored.Roadmap.DurationWeek,
		profileJSON,
		roadmapJSON,
		stored.CreatedAt,
	)
	return err
}

func (r *PgRoadmapRepository) GetByID(ctx context.Context, id string) (domain.StoredRoadmap, error) {
	const query = `
		SELECT id, profile, roadmap, created_at
		FROM roadmaps
		WHERE id = $1
	`
	return scanRoadmap(r.pool.QueryRow(ctx, query, id))
}

func (r *PgRoadmapRepository) List(ctx context.Context, limit int) ([]domain.StoredRoadmap, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, profile, roadmap, created_at
		FROM roadmaps
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredRoadmap
	for rows.Next() {
		stored, err := scanRoadmap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, rows.Err()
}

// scanRoadmap devuelve pgx.ErrNoRows tal cual cuando no hay fila.
func scanRoadmap(row pgx.Row) (domain.StoredRoadmap, error) {
	var (
		stored      domain.StoredRoadmap
		profileJSON []byte
		roadmapJSON []byte
	)
	if err := row.Scan(&stored.ID, &profileJSON, &roadmapJSON, &stored.CreatedAt); err != nil {
		return domain.StoredRoadmap{}, err
	}
	if err := json.Unmarshal(profileJSON, &stored.Profile); err != nil {
		return domain.StoredRoadmap{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := json.Unmarshal(roadmapJSON, &stored.Roadmap); err != nil {
		return domain.StoredRoadmap{}, fmt.Errorf("unmarshal roadmap: %w", err)
	}
	return stored, nil
}
