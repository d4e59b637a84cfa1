package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carejobs/reconciler-service/internal/model"
)

// PostgresStore implements Store on a pgxpool connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const employerCols = `id, slug, name, career_page_url, ats_platform, is_active,
	last_scraped, created_at, updated_at`

func scanEmployer(row pgx.Row) (*model.Employer, error) {
	var e model.Employer
	err := row.Scan(
		&e.ID, &e.Slug, &e.Name, &e.CareerPageURL, &e.ATSPlatform, &e.IsActive,
		&e.LastScraped, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan employer: %w", err)
	}
	return &e, nil
}

// EmployerBySlug returns the employer with the given slug, or nil.
func (s *PostgresStore) EmployerBySlug(ctx context.Context, slug string) (*model.Employer, error) {
	return scanEmployer(s.pool.QueryRow(ctx,
		`SELECT `+employerCols+` FROM employers WHERE slug = $1`, slug))
}

// EmployerByName returns the employer with the given display name, or nil.
func (s *PostgresStore) EmployerByName(ctx context.Context, name string) (*model.Employer, error) {
	return scanEmployer(s.pool.QueryRow(ctx,
		`SELECT `+employerCols+` FROM employers WHERE name = $1`, name))
}

// CreateEmployer inserts an employer and fills its generated fields.
func (s *PostgresStore) CreateEmployer(ctx context.Context, e *model.Employer) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO employers (slug, name, career_page_url, ats_platform, is_active, last_scraped)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.Slug, e.Name, e.CareerPageURL, e.ATSPlatform, e.IsActive, e.LastScraped,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert employer: %w", err)
	}
	return nil
}

// TouchEmployer stamps the employer's last-scraped time.
func (s *PostgresStore) TouchEmployer(ctx context.Context, id string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE employers SET last_scraped = $1, updated_at = NOW() WHERE id = $2`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("touch employer: %w", err)
	}
	return nil
}

// LocationByCityState returns the location row for (city, state), or nil.
func (s *PostgresStore) LocationByCityState(ctx context.Context, city, state string) (*model.Location, error) {
	var l model.Location
	err := s.pool.QueryRow(ctx,
		`SELECT id, city, state, state_name, created_at
		 FROM locations WHERE city = $1 AND state = $2`,
		city, state,
	).Scan(&l.ID, &l.City, &l.State, &l.StateName, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return &l, nil
}

// CreateLocation inserts a location row. Concurrent batches may race on the
// same pair; ON CONFLICT DO NOTHING makes the race benign.
func (s *PostgresStore) CreateLocation(ctx context.Context, l *model.Location) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO locations (city, state, state_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (city, state) DO NOTHING`,
		l.City, l.State, l.StateName,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

const jobCols = `id, employer_id, slug, source_url, source_job_id,
	title, description, raw_description,
	city, state, zip_code, is_remote,
	job_type, shift_type, specialty, experience_level,
	requirements, responsibilities, benefits, department, meta_description, keywords,
	salary_min, salary_max, salary_period,
	posted_date, expires_date, calculated_expires_date,
	is_active, was_ever_active, classified_at, scraped_at,
	created_at, updated_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Slug, &j.SourceURL, &j.SourceJobID,
		&j.Title, &j.Description, &j.RawDescription,
		&j.City, &j.State, &j.ZipCode, &j.IsRemote,
		&j.JobType, &j.ShiftType, &j.Specialty, &j.ExperienceLevel,
		&j.Requirements, &j.Responsibilities, &j.Benefits, &j.Department, &j.MetaDescription, &j.Keywords,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryPeriod,
		&j.PostedDate, &j.ExpiresDate, &j.CalculatedExpiresDate,
		&j.IsActive, &j.WasEverActive, &j.ClassifiedAt, &j.ScrapedAt,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}

// JobBySourceJobID returns the employer's job with the given requisition ID, or nil.
func (s *PostgresStore) JobBySourceJobID(ctx context.Context, employerID, sourceJobID string) (*model.Job, error) {
	return scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobCols+` FROM jobs WHERE employer_id = $1 AND source_job_id = $2`,
		employerID, sourceJobID))
}

// JobBySourceURL returns the employer's job with the given source URL, or nil.
func (s *PostgresStore) JobBySourceURL(ctx context.Context, employerID, sourceURL string) (*model.Job, error) {
	return scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobCols+` FROM jobs WHERE employer_id = $1 AND source_url = $2`,
		employerID, sourceURL))
}

// CreateJob inserts a job and fills its generated fields.
func (s *PostgresStore) CreateJob(ctx context.Context, j *model.Job) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jobs (employer_id, slug, source_url, source_job_id,
		   title, description, raw_description,
		   city, state, zip_code, is_remote,
		   job_type, shift_type, specialty, experience_level,
		   requirements, responsibilities, benefits, department, meta_description, keywords,
		   salary_min, salary_max, salary_period,
		   posted_date, expires_date, calculated_expires_date,
		   is_active, was_ever_active, classified_at, scraped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		         $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		 RETURNING id, created_at, updated_at`,
		j.EmployerID, j.Slug, j.SourceURL, j.SourceJobID,
		j.Title, j.Description, j.RawDescription,
		j.City, j.State, j.ZipCode, j.IsRemote,
		j.JobType, j.ShiftType, j.Specialty, j.ExperienceLevel,
		j.Requirements, j.Responsibilities, j.Benefits, j.Department, j.MetaDescription, j.Keywords,
		j.SalaryMin, j.SalaryMax, j.SalaryPeriod,
		j.PostedDate, j.ExpiresDate, j.CalculatedExpiresDate,
		j.IsActive, j.WasEverActive, j.ClassifiedAt, j.ScrapedAt,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job %q: %w", j.Slug, err)
	}
	return nil
}

// UpdateJob writes back every mutable field of a job. The slug is
// deliberately absent from the SET list — it never changes after creation.
func (s *PostgresStore) UpdateJob(ctx context.Context, j *model.Job) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE jobs SET
		   source_url = $1, source_job_id = $2,
		   title = $3, description = $4, raw_description = $5,
		   city = $6, state = $7, zip_code = $8, is_remote = $9,
		   job_type = $10, shift_type = $11, specialty = $12, experience_level = $13,
		   requirements = $14, responsibilities = $15, benefits = $16,
		   department = $17, meta_description = $18, keywords = $19,
		   salary_min = $20, salary_max = $21, salary_period = $22,
		   posted_date = $23, expires_date = $24, calculated_expires_date = $25,
		   is_active = $26, was_ever_active = $27, classified_at = $28, scraped_at = $29,
		   updated_at = NOW()
		 WHERE id = $30`,
		j.SourceURL, j.SourceJobID,
		j.Title, j.Description, j.RawDescription,
		j.City, j.State, j.ZipCode, j.IsRemote,
		j.JobType, j.ShiftType, j.Specialty, j.ExperienceLevel,
		j.Requirements, j.Responsibilities, j.Benefits,
		j.Department, j.MetaDescription, j.Keywords,
		j.SalaryMin, j.SalaryMax, j.SalaryPeriod,
		j.PostedDate, j.ExpiresDate, j.CalculatedExpiresDate,
		j.IsActive, j.WasEverActive, j.ClassifiedAt, j.ScrapedAt,
		j.ID,
	)
	if err != nil {
		return fmt.Errorf("update job %q: %w", j.Slug, err)
	}
	return nil
}

// CountActiveJobs returns the number of active jobs for an employer.
func (s *PostgresStore) CountActiveJobs(ctx context.Context, employerID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE employer_id = $1 AND is_active = true`,
		employerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active jobs: %w", err)
	}
	return n, nil
}

// ActiveJobsNotSeen returns the employer's active jobs whose source_url is
// absent from seenURLs.
func (s *PostgresStore) ActiveJobsNotSeen(ctx context.Context, employerID string, seenURLs []string) ([]model.JobRef, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, slug FROM jobs
		 WHERE employer_id = $1 AND is_active = true
		   AND NOT (source_url = ANY($2))`,
		employerID, seenURLs,
	)
	if err != nil {
		return nil, fmt.Errorf("query unseen active jobs: %w", err)
	}
	defer rows.Close()
	return collectRefs(rows)
}

// ExpiredActiveJobs returns every active job whose live expiry date is at or
// before now, across all employers.
func (s *PostgresStore) ExpiredActiveJobs(ctx context.Context, now time.Time) ([]model.JobRef, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, slug FROM jobs
		 WHERE is_active = true
		   AND (expires_date <= $1 OR calculated_expires_date <= $1)`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("query expired jobs: %w", err)
	}
	defer rows.Close()
	return collectRefs(rows)
}

// DeactivateJobs clears is_active for the given IDs with one set-based
// update, avoiding read-then-write races on individual rows.
func (s *PostgresStore) DeactivateJobs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET is_active = false, updated_at = NOW()
		 WHERE id = ANY($1) AND is_active = true`,
		ids,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func collectRefs(rows pgx.Rows) ([]model.JobRef, error) {
	refs := make([]model.JobRef, 0)
	for rows.Next() {
		var r model.JobRef
		if err := rows.Scan(&r.ID, &r.Slug); err != nil {
			return nil, fmt.Errorf("scan job ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}
