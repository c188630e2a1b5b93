package workspace

import (
	"context"
	"fmt"

	"github.com/vimtodo/core/internal/domain/entities"
)

// UpdateConfig merges patch into the current preferences and upserts the
// result.
func (w *Workspace) UpdateConfig(ctx context.Context, patch entities.AppConfigPatch) (*entities.AppConfig, error) {
	next := patch.Apply(w.Config())
	if err := w.validate.Struct(next); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	cfg, err := w.store.Configs.Upsert(ctx, s.owner, next)
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	w.commit(s, func() { w.config = *cfg })
	w.log.Infow("Config updated", "owner", s.owner.String())
	return cfg, nil
}
