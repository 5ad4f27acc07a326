// Package snapshotgateway persists ledger snapshots across two independent
// key-value backends on a best-effort basis. A snapshot survives as long as
// at least one backend keeps working; no backend failure ever reaches the
// caller as an error.
package snapshotgateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/munkhbat-e/pocket-ledger/internal/domain"
	"github.com/munkhbat-e/pocket-ledger/pkg/timepkg"
)

// Store provides the key-value contract a snapshot backend must satisfy.
// Get returns domain.ErrSnapshotNotFound when the key holds no data.
//
//go:generate mockgen -source gateway.go -destination gateway_mock.go -package snapshotgateway
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Gateway writes every snapshot to both backends and reads from whichever
// backend yields a parsable blob first, primary before fallback.
type Gateway struct {
	primary  Store // may be nil when the host has no database
	fallback Store
	key      string
	clock    timepkg.Clock
}

// New returns a Gateway over the given backends. primary may be nil.
func New(primary, fallback Store, key string, clock timepkg.Clock) *Gateway {
	return &Gateway{
		primary:  primary,
		fallback: fallback,
		key:      key,
		clock:    clock,
	}
}

// Save serializes snap, stamps its lastUpdate and writes the blob to every
// configured backend. Each attempt is isolated; one backend failing does not
// stop the other attempt. It reports true when at least one write succeeded.
func (g *Gateway) Save(ctx context.Context, snap domain.Snapshot) bool {
	l := zerolog.Ctx(ctx)

	snap.LastUpdate = g.clock.Now().Format(time.RFC3339)

	blob, err := json.Marshal(snap)
	if err != nil {
		l.Error().Err(err).Msg("snapshot serialization failed")

		return false
	}

	primaryOK := false
	if g.primary != nil {
		if err := g.primary.Set(ctx, g.key, string(blob)); err != nil {
			l.Warn().Err(err).Msg("primary store unavailable")
		} else {
			primaryOK = true
		}
	}

	fallbackOK := false
	if err := g.fallback.Set(ctx, g.key, string(blob)); err != nil {
		l.Warn().Err(err).Msg("fallback store unavailable")
	} else {
		fallbackOK = true
	}

	if !primaryOK && !fallbackOK {
		l.Error().Msg("all snapshot saves failed")

		return false
	}

	l.Info().
		Bool("primary", primaryOK).
		Bool("fallback", fallbackOK).
		Int("transactions", len(snap.Transactions)).
		Msg("snapshot saved")

	return true
}

// Load restores the most recently saved snapshot, trying the primary backend
// first. A backend that is absent, empty or holds a malformed blob is skipped.
// The second return value is false on a first run, when no backend yields data.
func (g *Gateway) Load(ctx context.Context) (domain.Snapshot, bool) {
	l := zerolog.Ctx(ctx)

	if g.primary != nil {
		if snap, ok := g.read(ctx, g.primary); ok {
			l.Info().Msg("snapshot loaded from primary store")

			return snap, true
		}
	}

	if snap, ok := g.read(ctx, g.fallback); ok {
		l.Info().Msg("snapshot loaded from fallback store")

		return snap, true
	}

	l.Info().Msg("no saved snapshot found")

	return domain.Snapshot{}, false
}

func (g *Gateway) read(ctx context.Context, store Store) (domain.Snapshot, bool) {
	l := zerolog.Ctx(ctx)

	blob, err := store.Get(ctx, g.key)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			l.Warn().Err(err).Msg("snapshot read failed")
		}

		return domain.Snapshot{}, false
	}

	if blob == "" {
		return domain.Snapshot{}, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		l.Warn().Err(err).Msg("malformed snapshot skipped")

		return domain.Snapshot{}, false
	}

	return snap, true
}
