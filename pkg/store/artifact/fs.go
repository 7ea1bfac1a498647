package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type fsStore struct {
	dir string
}

// NewFS returns a store that writes artifacts as .xlsx files under dir,
// creating the directory if needed.
func NewFS(dir string) (Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &fsStore{dir: dir}, nil
}

func (s *fsStore) Save(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(s.dir, name+".xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Info().Str("path", path).Msg("artifact written")
	return nil
}
