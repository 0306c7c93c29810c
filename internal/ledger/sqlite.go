// internal/ledger/sqlite.go
package ledger

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid INTEGER NOT NULL DEFAULT 0,
	company TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT '',
	submitted_date TEXT NOT NULL DEFAULT '',
	viewed_date TEXT NOT NULL DEFAULT '',
	closed_date TEXT NOT NULL DEFAULT '',
	applicants INTEGER,
	location TEXT NOT NULL DEFAULT '',
	job_link TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS checkpoints (
	pass TEXT PRIMARY KEY,
	uid INTEGER NOT NULL
);`

// SQLiteStore keeps the ledger in a SQLite database. Insertion order is the
// rowid order, so Load preserves it.
type SQLiteStore struct {
	db  *sql.DB
	ids []int64 // Load-order row index -> applications.id
}

// OpenSQLite opens (creating if needed) the ledger database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load() ([]Record, error) {
	rows, err := s.db.Query(`SELECT id, uid, company, position, submitted_date,
		viewed_date, closed_date, applicants, location, job_link
		FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	defer rows.Close()

	var out []Record
	s.ids = s.ids[:0]
	for rows.Next() {
		var (
			id         int64
			rec        Record
			applicants sql.NullInt64
		)
		if err := rows.Scan(&id, &rec.UID, &rec.Company, &rec.Position,
			&rec.SubmittedDate, &rec.ViewedDate, &rec.ClosedDate,
			&applicants, &rec.Location, &rec.JobLink); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		if applicants.Valid {
			n := int(applicants.Int64)
			rec.ApplicantCount = &n
		}
		s.ids = append(s.ids, id)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Append(rec Record) error {
	var applicants any
	if rec.ApplicantCount != nil {
		applicants = *rec.ApplicantCount
	}
	res, err := s.db.Exec(`INSERT INTO applications
		(uid, company, position, submitted_date, viewed_date, closed_date, applicants, location, job_link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UID, rec.Company, rec.Position, rec.SubmittedDate,
		rec.ViewedDate, rec.ClosedDate, applicants, rec.Location, rec.JobLink)
	if err != nil {
		return fmt.Errorf("append application: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.ids = append(s.ids, id)
	}
	return nil
}

func (s *SQLiteStore) Update(row int, patch Patch) error {
	if row < 0 || row >= len(s.ids) {
		return fmt.Errorf("update row %d: ledger has %d loaded rows", row, len(s.ids))
	}
	id := s.ids[row]
	if patch.ViewedDate != nil {
		if _, err := s.db.Exec(`UPDATE applications SET viewed_date = ? WHERE id = ?`, *patch.ViewedDate, id); err != nil {
			return fmt.Errorf("update viewed date: %w", err)
		}
	}
	if patch.ClosedDate != nil {
		if _, err := s.db.Exec(`UPDATE applications SET closed_date = ? WHERE id = ?`, *patch.ClosedDate, id); err != nil {
			return fmt.Errorf("update closed date: %w", err)
		}
	}
	if patch.ApplicantCount != nil {
		if _, err := s.db.Exec(`UPDATE applications SET applicants = ? WHERE id = ?`, *patch.ApplicantCount, id); err != nil {
			return fmt.Errorf("update applicants: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Checkpoint(pass string) (uint32, error) {
	var uid uint32
	err := s.db.QueryRow(`SELECT uid FROM checkpoints WHERE pass = ?`, pass).Scan(&uid)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("checkpoint for %s pass: %w", pass, err)
	}
	return uid, nil
}

func (s *SQLiteStore) SetCheckpoint(pass string, uid uint32) error {
	_, err := s.db.Exec(`INSERT INTO checkpoints (pass, uid) VALUES (?, ?)
		ON CONFLICT(pass) DO UPDATE SET uid = excluded.uid`, pass, uid)
	if err != nil {
		return fmt.Errorf("set checkpoint for %s pass: %w", pass, err)
	}
	return nil
}

// Persist is a no-op: SQLite commits each statement as it runs.
func (s *SQLiteStore) Persist() error { return nil }

var _ Store = (*SQLiteStore)(nil)
