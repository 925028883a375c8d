package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSnapshotNotFound is returned by LoadSnapshot when nothing was saved
// under the name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SaveSnapshot stores data under name, replacing any previous blob.
func (s *Store) SaveSnapshot(name string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO snapshots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, now,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return nil
}

func (s *Store) LoadSnapshot(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return data, nil
}

func (s *Store) ListSnapshots() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(`SELECT name, length(data), updated_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var updatedAt string
		if err := rows.Scan(&info.Name, &info.Size, &updatedAt); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSnapshot removes a snapshot. Deleting a missing name is not an error.
func (s *Store) DeleteSnapshot(name string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return nil
}
