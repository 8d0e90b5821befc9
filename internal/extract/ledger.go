package extract

import (
	"log/slog"
	"path/filepath"

	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/db"
)

// ledger records a run in the SQLite ledger. A nil *ledger is a disabled
// ledger; every method is a no-op on it. Ledger failures are logged and
// never change the outcome of the run.
type ledger struct {
	db     *db.DB
	runID  int64
	logger *slog.Logger
}

func openLedger(cfg *models.Config, logger *slog.Logger) *ledger {
	if cfg.Ledger == "" {
		return nil
	}
	path := cfg.Resolve(cfg.Ledger)
	database, err := db.Open(path)
	if err != nil {
		logger.Warn("run ledger unavailable", "path", path, "error", err)
		return nil
	}
	return &ledger{db: database, logger: logger}
}

func (l *ledger) start(root, preset string, fileCount int) {
	if l == nil {
		return
	}
	runID, err := l.db.CreateRun(absPath(root), preset, fileCount)
	if err != nil {
		l.logger.Warn("failed to record run start", "error", err)
		return
	}
	l.runID = runID
	l.logger.Info("run started", "run_id", runID, "files", fileCount, "ledger", l.db.Path())
}

func (l *ledger) record(result *models.ExtractResult) {
	if l == nil || l.runID == 0 {
		return
	}
	source := absPath(result.HTMLPath)
	for _, out := range result.Outputs {
		if _, err := l.db.InsertArtifact(l.runID, source, string(out.Kind), absPath(out.Path), out.ContentHash, out.SizeBytes); err != nil {
			l.logger.Warn("failed to record artifact", "path", out.Path, "error", err)
		}
	}
}

func (l *ledger) finish(processed, failed int, runErr error) {
	if l == nil || l.runID == 0 {
		return
	}
	var errMsg string
	if runErr != nil {
		errMsg = runErr.Error()
	}
	if err := l.db.FinishRun(l.runID, processed, failed, errMsg); err != nil {
		l.logger.Warn("failed to record run end", "run_id", l.runID, "error", err)
	}
}

func (l *ledger) close() {
	if l == nil {
		return
	}
	if err := l.db.Close(); err != nil {
		l.logger.Warn("failed to close run ledger", "error", err)
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
