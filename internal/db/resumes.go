package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-tailor/internal/resumes"
)

var _ resumes.Store = (*DB)(nil)

// DocumentPath returns the logical location recorded for a resume's original document.
func DocumentPath(name, ext string) string {
	return "postgres://resumes/" + name + resumes.NormalizeExt(ext)
}

// List returns the names of stored resumes in lexical order.
func (db *DB) List(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT name FROM resumes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan resume name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return names, nil
}

// Load retrieves a resume by name. Returns found=false if it does not exist.
func (db *DB) Load(ctx context.Context, name string) (*resumes.Record, bool, error) {
	if err := resumes.ValidateName(name); err != nil {
		return nil, false, err
	}

	rec := resumes.Record{Name: name}
	err := db.pool.QueryRow(ctx,
		`SELECT text, pdf_path, created_at FROM resumes WHERE name = $1`,
		name,
	).Scan(&rec.Text, &rec.PDFPath, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load resume %q: %w", name, err)
	}
	return &rec, true, nil
}

// Save stores a resume. Without Overwrite an existing name is left untouched and
// *resumes.ExistsError is returned.
func (db *DB) Save(ctx context.Context, upload resumes.Upload) (*resumes.Record, error) {
	if err := resumes.ValidateName(upload.Name); err != nil {
		return nil, err
	}

	query := `INSERT INTO resumes (name, text, document, pdf_path)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING created_at`
	if upload.Overwrite {
		query = `INSERT INTO resumes (name, text, document, pdf_path)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET text = $2, document = $3, pdf_path = $4, created_at = NOW()
		 RETURNING created_at`
	}

	rec := resumes.Record{Name: upload.Name, Text: upload.StoredText(), PDFPath: DocumentPath(upload.Name, upload.Ext)}
	data := upload.Data
	if data == nil {
		data = []byte{}
	}
	err := db.pool.QueryRow(ctx, query, rec.Name, rec.Text, data, rec.PDFPath).Scan(&rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &resumes.ExistsError{Name: upload.Name}
		}
		return nil, fmt.Errorf("failed to save resume %q: %w", upload.Name, err)
	}
	return &rec, nil
}

// Document returns the original uploaded bytes of a resume. Returns found=false if
// it does not exist.
func (db *DB) Document(ctx context.Context, name string) ([]byte, bool, error) {
	if err := resumes.ValidateName(name); err != nil {
		return nil, false, err
	}

	var data []byte
	err := db.pool.QueryRow(ctx, `SELECT document FROM resumes WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load document for %q: %w", name, err)
	}
	return data, true, nil
}
