package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"travelhub/pkg/models"
	"travelhub/pkg/utils"
)

// Store persists normalized posts in a local sqlite database so the
// mirror server and exporters can work without the WordPress API. It is
// derived data: cmd/snapshot rebuilds it from upstream at any time.
type Store struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS posts (
  id TEXT NOT NULL,
  type_key TEXT NOT NULL,
  type_label TEXT,
  title TEXT,
  slug TEXT,
  link TEXT,
  date TEXT,
  excerpt TEXT,
  hero_image TEXT,
  fields TEXT, -- JSON object as text
  PRIMARY KEY (type_key, id)
);
`

func Open(cfg utils.SnapshotConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{DB: db}, nil
}

func MustOpen(cfg utils.SnapshotConfig) *Store {
	s, err := Open(cfg)
	if err != nil {
		log.Fatalf("failed to open snapshot db: %v", err)
	}
	return s
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Migrate() error {
	if _, err := s.DB.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertPosts writes the given posts in one transaction, replacing any
// existing rows with the same (type, id).
func (s *Store) UpsertPosts(ctx context.Context, posts []models.Post) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posts (id, type_key, type_label, title, slug, link, date, excerpt, hero_image, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type_key, id) DO UPDATE SET
		  type_label = excluded.type_label,
		  title = excluded.title,
		  slug = excluded.slug,
		  link = excluded.link,
		  date = excluded.date,
		  excerpt = excluded.excerpt,
		  hero_image = excluded.hero_image,
		  fields = excluded.fields
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, p := range posts {
		fieldsJSON, err := json.Marshal(p.Fields)
		if err != nil {
			return fmt.Errorf("marshal fields for %s/%s: %w", p.TypeKey, p.ID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			p.ID,
			p.TypeKey,
			p.TypeLabel,
			p.Title,
			p.Slug,
			p.Link,
			p.Date,
			p.Excerpt,
			p.HeroImage,
			string(fieldsJSON),
		); err != nil {
			return fmt.Errorf("exec upsert for %s/%s: %w", p.TypeKey, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListByType returns the stored posts of one type, newest date first.
func (s *Store) ListByType(ctx context.Context, typeKey string) ([]models.Post, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, type_key, type_label, title, slug, link, date, excerpt, hero_image, fields
		FROM posts
		WHERE type_key = ?
		ORDER BY date DESC, id ASC
	`, typeKey)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Get returns one stored post, or nil when absent.
func (s *Store) Get(ctx context.Context, typeKey, id string) (*models.Post, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, type_key, type_label, title, slug, link, date, excerpt, hero_image, fields
		FROM posts
		WHERE type_key = ? AND id = ?
	`, typeKey, id)
	if err != nil {
		return nil, fmt.Errorf("get query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanPost(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPost(rows *sql.Rows) (models.Post, error) {
	var (
		p          models.Post
		typeLabel  sql.NullString
		title      sql.NullString
		slug       sql.NullString
		link       sql.NullString
		date       sql.NullString
		excerpt    sql.NullString
		heroImage  sql.NullString
		fieldsJSON sql.NullString
	)

	if err := rows.Scan(
		&p.ID, &p.TypeKey, &typeLabel, &title, &slug, &link, &date, &excerpt, &heroImage, &fieldsJSON,
	); err != nil {
		return models.Post{}, fmt.Errorf("scan post: %w", err)
	}

	p.TypeLabel = typeLabel.String
	p.Title = title.String
	p.Slug = slug.String
	p.Link = link.String
	p.Date = date.String
	p.Excerpt = excerpt.String
	p.HeroImage = heroImage.String

	p.Fields = make(map[string]string)
	if fieldsJSON.Valid && fieldsJSON.String != "" {
		_ = json.Unmarshal([]byte(fieldsJSON.String), &p.Fields)
	}
	return p, nil
}
