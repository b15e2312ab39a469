package repository

import (
	"context"
	"strings"

	"chemjobs/internal/database"
)

// SearchLogEntry is one audit row per search request. Counts capture how many
// records survived each filter stage so sparse results can be diagnosed after
// the fact.
type SearchLogEntry struct {
	RequestID      string
	Profession     string
	Specialization string
	Location       string
	Companies      []string
	JobsParsed     int
	JobsValid      int
	JobsAllowed    int
	JobsReturned   int
	Warning        string
}

type SearchLogRepository interface {
	EnsureSchema(ctx context.Context) error
	LogSearch(ctx context.Context, entry SearchLogEntry) error
}

type PostgresSearchLogRepository struct {
	db database.DB
}

func NewPostgresSearchLogRepository(db database.DB) *PostgresSearchLogRepository {
	return &PostgresSearchLogRepository{db: db}
}

func (r *PostgresSearchLogRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS search_log (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL,
			profession TEXT NOT NULL,
			specialization TEXT NOT NULL,
			location TEXT NOT NULL,
			companies TEXT NOT NULL,
			jobs_parsed INT NOT NULL DEFAULT 0,
			jobs_valid INT NOT NULL DEFAULT 0,
			jobs_allowed INT NOT NULL DEFAULT 0,
			jobs_returned INT NOT NULL DEFAULT 0,
			warning TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (r *PostgresSearchLogRepository) LogSearch(ctx context.Context, entry SearchLogEntry) error {
	var warning any
	if strings.TrimSpace(entry.Warning) != "" {
		warning = entry.Warning
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO search_log
			(request_id, profession, specialization, location, companies,
			 jobs_parsed, jobs_valid, jobs_allowed, jobs_returned, warning)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.RequestID,
		entry.Profession,
		entry.Specialization,
		entry.Location,
		strings.Join(entry.Companies, ", "),
		entry.JobsParsed,
		entry.JobsValid,
		entry.JobsAllowed,
		entry.JobsReturned,
		warning,
	)
	return err
}

var _ SearchLogRepository = (*PostgresSearchLogRepository)(nil)
