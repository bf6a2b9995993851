// Package profile loads a user's rows from the platform and assembles the
// dashboard computed from them.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
)

// ErrNoUser is returned when the user query yields no row.
var ErrNoUser = errors.New("no user in response")

// Snapshot is one consistent read of everything the dashboard needs.
type Snapshot struct {
	User      metrics.UserIdentity
	XP        []metrics.Row
	Up        []metrics.Row
	Down      []metrics.Row
	Progress  []metrics.Row
	FetchedAt time.Time
}

// Source loads snapshots.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Executor runs an authenticated GraphQL query. session.Session implements it.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any, out any) error
}

// Fetcher is a Source backed by the GraphQL gateway.
type Fetcher struct {
	Exec   Executor
	Logger *slog.Logger
	Now    func() time.Time
}

// NewFetcher creates a fetcher over exec.
func NewFetcher(exec Executor, logger *slog.Logger) *Fetcher {
	return &Fetcher{Exec: exec, Logger: logger, Now: time.Now}
}

type userResponse struct {
	User []struct {
		ID    int64           `json:"id"`
		Login string          `json:"login"`
		Attrs json.RawMessage `json:"attrs"`
	} `json:"user"`
}

type dashboardResponse struct {
	XP       json.RawMessage `json:"xp"`
	Up       json.RawMessage `json:"up"`
	Down     json.RawMessage `json:"down"`
	Progress json.RawMessage `json:"progress"`
}

// Load implements Source. It resolves the user first, then reads all row sets
// scoped to that user in a single query.
func (f *Fetcher) Load(ctx context.Context) (*Snapshot, error) {
	user, err := f.User(ctx)
	if err != nil {
		return nil, err
	}

	var resp dashboardResponse

	err = f.Exec.Execute(ctx, DashboardQuery, map[string]any{"userId": user.ID}, &resp)
	if err != nil {
		return nil, fmt.Errorf("query dashboard: %w", err)
	}

	snap := &Snapshot{User: user, FetchedAt: f.now().UTC()}

	sets := []struct {
		name string
		raw  json.RawMessage
		typ  metrics.TransactionType
		dst  *[]metrics.Row
	}{
		{"xp", resp.XP, metrics.TypeXP, &snap.XP},
		{"up", resp.Up, metrics.TypeUp, &snap.Up},
		{"down", resp.Down, metrics.TypeDown, &snap.Down},
		{"progress", resp.Progress, "", &snap.Progress},
	}

	for _, set := range sets {
		rows, decodeErr := decodeSet(set.raw, set.typ)
		if decodeErr != nil {
			return nil, fmt.Errorf("decode %s: %w", set.name, decodeErr)
		}

		*set.dst = rows
	}

	f.logger().DebugContext(ctx, "snapshot loaded",
		"user", user.Login,
		"xp", len(snap.XP),
		"up", len(snap.Up),
		"down", len(snap.Down),
		"progress", len(snap.Progress),
	)

	return snap, nil
}

// User resolves the signed-in user.
func (f *Fetcher) User(ctx context.Context) (metrics.UserIdentity, error) {
	var resp userResponse

	err := f.Exec.Execute(ctx, UserQuery, nil, &resp)
	if err != nil {
		return metrics.UserIdentity{}, fmt.Errorf("query user: %w", err)
	}

	if len(resp.User) == 0 {
		return metrics.UserIdentity{}, ErrNoUser
	}

	u := resp.User[0]
	identity := metrics.UserIdentity{ID: u.ID, Login: u.Login}

	// attrs is free-form jsonb; unknown or mistyped fields are ignored.
	if isPresent(u.Attrs) {
		_ = json.Unmarshal(u.Attrs, &identity.Attrs)
	}

	return identity, nil
}

// decodeSet decodes one row set. A missing or null set is empty. Rows that
// carry no type are stamped with typ.
func decodeSet(raw json.RawMessage, typ metrics.TransactionType) ([]metrics.Row, error) {
	if !isPresent(raw) {
		return []metrics.Row{}, nil
	}

	rows, err := metrics.DecodeRows(raw)
	if err != nil {
		return nil, err
	}

	if typ != "" {
		for i := range rows {
			if rows[i].Type == "" {
				rows[i].Type = typ
			}
		}
	}

	return rows, nil
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}

	return slog.New(slog.DiscardHandler)
}

func (f *Fetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}

	return time.Now()
}

// StaticSource serves a fixed snapshot.
type StaticSource struct {
	Snapshot *Snapshot
}

// Load implements Source.
func (s StaticSource) Load(context.Context) (*Snapshot, error) {
	if s.Snapshot == nil {
		return nil, ErrNoUser
	}

	return s.Snapshot, nil
}
