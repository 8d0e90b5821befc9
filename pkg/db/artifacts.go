package db

import (
	"fmt"
)

// ArtifactInfo is one file written by a run.
type ArtifactInfo struct {
	ArtifactID  int64
	RunID       int64
	SourcePath  string
	Kind        string
	FilePath    string
	ContentHash string
	SizeBytes   int64
}

// InsertArtifact records a file written by a run, returning the artifact_id.
// Writing the same path twice in one run updates the existing row.
func (db *DB) InsertArtifact(runID int64, sourcePath, kind, filePath, contentHash string, sizeBytes int64) (int64, error) {
	_, err := db.Exec(`
		INSERT INTO artifacts (run_id, source_path, kind, file_path, content_hash, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, file_path) DO UPDATE SET
			source_path = excluded.source_path,
			kind = excluded.kind,
			content_hash = excluded.content_hash,
			size_bytes = excluded.size_bytes
	`, runID, sourcePath, kind, filePath, contentHash, sizeBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to insert artifact: %w", err)
	}

	var artifactID int64
	err = db.QueryRow("SELECT artifact_id FROM artifacts WHERE run_id = ? AND file_path = ?", runID, filePath).Scan(&artifactID)
	if err != nil {
		return 0, fmt.Errorf("failed to get artifact ID: %w", err)
	}
	return artifactID, nil
}

// ListArtifacts returns the artifacts of a run in insertion order.
func (db *DB) ListArtifacts(runID int64) ([]ArtifactInfo, error) {
	rows, err := db.Query(`
		SELECT artifact_id, run_id, source_path, kind, file_path, content_hash, COALESCE(size_bytes, 0)
		FROM artifacts
		WHERE run_id = ?
		ORDER BY artifact_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactInfo
	for rows.Next() {
		var a ArtifactInfo
		if err := rows.Scan(&a.ArtifactID, &a.RunID, &a.SourcePath, &a.Kind, &a.FilePath, &a.ContentHash, &a.SizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}

	return artifacts, rows.Err()
}

// StaleArtifactPaths returns paths recorded by other runs over the same root
// that runID did not write, e.g. section files of a section that has since
// been removed.
func (db *DB) StaleArtifactPaths(runID int64) ([]string, error) {
	return db.queryPaths(`
		SELECT DISTINCT a.file_path FROM artifacts a
		JOIN runs r ON r.run_id = a.run_id
		WHERE a.run_id <> ?
		  AND r.root = (SELECT root FROM runs WHERE run_id = ?)
		  AND a.file_path NOT IN (SELECT file_path FROM artifacts WHERE run_id = ?)
		ORDER BY a.file_path
	`, runID, runID, runID)
}

// AllArtifactPaths returns every path recorded by runs over root.
func (db *DB) AllArtifactPaths(root string) ([]string, error) {
	return db.queryPaths(`
		SELECT DISTINCT a.file_path FROM artifacts a
		JOIN runs r ON r.run_id = a.run_id
		WHERE r.root = ?
		ORDER BY a.file_path
	`, root)
}

// ForgetArtifactPath drops every record of filePath.
func (db *DB) ForgetArtifactPath(filePath string) error {
	if _, err := db.Exec("DELETE FROM artifacts WHERE file_path = ?", filePath); err != nil {
		return fmt.Errorf("failed to forget artifact: %w", err)
	}
	return nil
}

func (db *DB) queryPaths(query string, args ...any) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifact paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan artifact path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
