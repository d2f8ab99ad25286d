package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS projects (
        id TEXT PRIMARY KEY, -- UUID
        file_id TEXT UNIQUE NOT NULL,
        original_name TEXT NOT NULL,
        rfp_text TEXT NOT NULL,
        pid_text TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        project_id TEXT NOT NULL,
        sender TEXT NOT NULL CHECK (sender IN ('user', 'model')),
        content TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (project_id) REFERENCES projects (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// UpsertProject creates the record for a file id or, when it already
// exists, replaces its RFP and PID text wholesale.
func (s *SQLiteStore) UpsertProject(fileID, originalName, rfpText, pidText string) (*Project, error) {
	existing, err := s.GetProjectByFileID(fileID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		_, err := s.db.Exec(
			"UPDATE projects SET rfp_text = ?, pid_text = ?, updated_at = ? WHERE file_id = ?",
			rfpText, pidText, now, fileID)
		if err != nil {
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
		existing.RFPText = rfpText
		existing.PIDText = pidText
		existing.UpdatedAt = now
		return existing, nil
	}

	project := &Project{
		ID:           uuid.NewString(),
		FileID:       fileID,
		OriginalName: originalName,
		RFPText:      rfpText,
		PIDText:      pidText,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = s.db.Exec(
		"INSERT INTO projects (id, file_id, original_name, rfp_text, pid_text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		project.ID, project.FileID, project.OriginalName, project.RFPText, project.PIDText, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return project, nil
}

func (s *SQLiteStore) GetProjectByFileID(fileID string) (*Project, error) {
	var p Project
	err := s.db.QueryRow(
		"SELECT id, file_id, original_name, rfp_text, pid_text, created_at, updated_at FROM projects WHERE file_id = ?",
		fileID).Scan(&p.ID, &p.FileID, &p.OriginalName, &p.RFPText, &p.PIDText, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query project: %w", err)
	}
	return &p, nil
}

// UpdateProjectPID replaces the stored PID text. Callers only invoke it
// after a refinement call fully succeeded, so a failed refinement can
// never leave a partial document behind.
func (s *SQLiteStore) UpdateProjectPID(fileID, pidText string) error {
	res, err := s.db.Exec(
		"UPDATE projects SET pid_text = ?, updated_at = ? WHERE file_id = ?",
		pidText, time.Now(), fileID)
	if err != nil {
		return fmt.Errorf("failed to update project PID: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("project not found for file %s, PID not updated", fileID)
	}
	return nil
}

func (s *SQLiteStore) DeleteProjectByFileID(fileID string) error {
	project, err := s.GetProjectByFileID(fileID)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}
	if _, err := s.db.Exec("DELETE FROM messages WHERE project_id = ?", project.ID); err != nil {
		return fmt.Errorf("failed to delete project messages: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM projects WHERE id = ?", project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddMessage(projectID, sender, content string) (*Message, error) {
	msg := &Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO messages (id, project_id, sender, content, timestamp) VALUES (?, ?, ?, ?, ?)",
		msg.ID, msg.ProjectID, msg.Sender, msg.Content, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

func (s *SQLiteStore) GetMessagesByProjectID(projectID string) ([]Message, error) {
	rows, err := s.db.Query(
		"SELECT id, project_id, sender, content, timestamp FROM messages WHERE project_id = ? ORDER BY timestamp ASC",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ProjectID, &msg.Sender, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
