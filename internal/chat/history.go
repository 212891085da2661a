package chat

import (
	"path/filepath"

	"github.com/kitsune-cli/kitsune/internal/store"
	"go.uber.org/zap"
)

const HistoryFileName = "history.json"

// NewHistoryFile returns the repository for dataDir/history.json.
func NewHistoryFile(dataDir string) *store.JSONFile[[]Turn] {
	return &store.JSONFile[[]Turn]{
		Path:    filepath.Join(dataDir, HistoryFileName),
		Default: func() []Turn { return []Turn{} },
		Migrate: migrateHistory,
	}
}

// migrateHistory drops turns that cannot be replayed to the model.
func migrateHistory(turns *[]Turn) {
	out := make([]Turn, 0, len(*turns))
	for _, t := range *turns {
		if t.validate() != nil || len(t.Parts) == 0 {
			continue
		}
		out = append(out, t)
	}
	*turns = out
}

// loadHistory returns the persisted conversation, starting over when the file
// is unreadable.
func loadHistory(repo store.Repository[[]Turn], logger *zap.Logger) ([]Turn, error) {
	turns, err := repo.Load()
	if err != nil {
		if store.IsCorrupt(err) {
			logger.Warn("chat history unreadable, starting a new conversation", zap.Error(err))
			return []Turn{}, nil
		}
		return nil, err
	}
	return turns, nil
}

// resumable trims what cannot be sent back to the model: a trailing model
// turn whose invocations were never answered loses them, and is dropped if
// nothing else remains.
func resumable(turns []Turn) []Turn {
	if len(turns) == 0 {
		return turns
	}
	last := turns[len(turns)-1]
	if last.Role != RoleModel || len(last.Calls()) == 0 {
		return turns
	}
	stripped := last.WithoutCalls()
	if len(stripped.Parts) == 0 {
		return turns[:len(turns)-1]
	}
	out := append([]Turn(nil), turns[:len(turns)-1]...)
	return append(out, stripped)
}
