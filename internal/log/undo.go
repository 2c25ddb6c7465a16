package log

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// ErrIrreversible is returned for operations whose effect cannot be reverted.
var ErrIrreversible = errors.New("operation cannot be undone")

func UndoOperation(op OperationLog) UndoResult {
	result := UndoResult{
		Operation: op,
		Success:   false,
	}

	if op.DestPath == "" && (op.Type == OpRename || op.Type == OpCopy || op.Type == OpMux) {
		result.Error = fmt.Errorf("cannot undo %s: destination path missing", op.Type)
		return result
	}

	switch op.Type {
	case OpRename:
		result.Error = moveBack(op)

	case OpCopy:
		// The copy is redundant while the original exists; otherwise it is
		// the only remaining data and goes back to where it came from.
		if exists(op.SourcePath) {
			result.Error = removeIfPresent(op.DestPath)
		} else {
			result.Error = moveBack(op)
		}

	case OpMux:
		if !exists(op.SourcePath) {
			result.Error = fmt.Errorf("cannot undo mux: source video %s no longer exists", op.SourcePath)
			return result
		}
		result.Error = removeIfPresent(op.DestPath)

	case OpDelete, OpRemoveTree:
		result.Error = fmt.Errorf("%s %s: %w", op.Type, op.SourcePath, ErrIrreversible)

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	result.Success = result.Error == nil
	return result
}

func moveBack(op OperationLog) error {
	if !exists(op.DestPath) {
		return fmt.Errorf("cannot undo %s: file %s not found", op.Type, op.DestPath)
	}
	if exists(op.SourcePath) {
		return fmt.Errorf("cannot undo %s: original path %s already exists", op.Type, op.SourcePath)
	}
	if err := os.Rename(op.DestPath, op.SourcePath); err != nil {
		return fmt.Errorf("failed to move %s back to %s: %w", op.DestPath, op.SourcePath, err)
	}
	return nil
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// UndoSession reverts the successful operations of session, newest first.
// Irreversible operations are skipped and not counted as failures.
func UndoSession(session *LogSession) (successful int, failed int, errs []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]

		if !op.Success {
			continue
		}

		result := UndoOperation(op)
		switch {
		case result.Success:
			successful++
		case errors.Is(result.Error, ErrIrreversible):
			continue
		default:
			failed++
			if result.Error != nil {
				errs = append(errs, result.Error)
			}
		}
	}

	return successful, failed, errs
}

// FindLatestSession returns the newest session and the file it was read from.
func FindLatestSession() (*LogSession, string, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sessions: %w", err)
	}

	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		return session, file, nil
	}

	return nil, "", fmt.Errorf("no sessions found")
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
}

// GetSessionSummaries lists at most limit sessions, newest first. A
// non-positive limit lists all of them.
func GetSessionSummaries(limit int) ([]SessionSummary, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		if limit > 0 && len(summaries) == limit {
			break
		}
		session, err := ReadSession(file)
		if err != nil {
			continue
		}

		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
		})
	}

	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
