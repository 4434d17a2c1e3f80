package orchestrator

import (
	"context"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/store"
)

type redisStatusAdapter struct{ s *store.RedisStatus }

// NewStatusAdapter exposes a RedisStatus through the orchestrator's
// StatusStore interface.
func NewStatusAdapter(s *store.RedisStatus) StatusStore { return &redisStatusAdapter{s: s} }

func (a *redisStatusAdapter) Set(ctx context.Context, runID string, st Status) error {
	m := make(map[string]interface{})
	if st.Metadata != nil {
		m = st.Metadata
	}
	return a.s.Set(ctx, runID, store.Status{
		Status:   st.Status,
		Progress: st.Progress,
		Message:  st.Message,
		Start:    st.Start,
		End:      st.End,
		Metadata: m,
	})
}

func (a *redisStatusAdapter) Get(ctx context.Context, runID string) (Status, bool, error) {
	st, ok, err := a.s.Get(ctx, runID)
	if !ok || err != nil {
		return Status{}, ok, err
	}
	return Status{
		Status:   st.Status,
		Progress: st.Progress,
		Message:  st.Message,
		Start:    st.Start,
		End:      st.End,
		Metadata: st.Metadata,
	}, true, nil
}
