package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MazeXD/cuwo/webapi"
)

// DefaultConcurrency bounds the number of in-flight web API calls
const DefaultConcurrency = 5

// FetchPlayers looks up every named player with bounded concurrency.
// Players that left between the status call and the lookup are skipped.
// The result keeps the order of names.
func (o *Operations) FetchPlayers(ctx context.Context, names []string, include webapi.Include) ([]*webapi.Player, error) {
	if len(names) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	// Each goroutine writes its own slot
	found := make([]*webapi.Player, len(names))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			player, err := o.api.Player(ctx, name, include)
			if errors.Is(err, webapi.ErrInvalidPlayer) {
				o.logger.Warn().
					Str("player", name).
					Msg("Player left before details could be fetched")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get player %s: %w", name, err)
			}

			found[i] = player
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	players := make([]*webapi.Player, 0, len(names))
	for _, p := range found {
		if p != nil {
			players = append(players, p)
		}
	}

	o.logger.Debug().
		Int("requested", len(names)).
		Int("found", len(players)).
		Msg("Retrieved player details")

	return players, nil
}

// BatchKickPlayers kicks players concurrently and aggregates the outcome
func (o *Operations) BatchKickPlayers(ctx context.Context, names []string) BatchKickResult {
	result := BatchKickResult{
		Requested: len(names),
	}

	if len(names) == 0 {
		return result
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	var mu sync.Mutex

	for _, name := range names {
		name := name
		g.Go(func() error {
			ok, err := o.api.Kick(ctx, name)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed = append(result.Failed, KickError{Player: name, Err: err})
			case ok:
				result.Successful = append(result.Successful, name)
			}
			// Don't stop on individual errors
			return nil
		})
	}

	g.Wait()

	sort.Strings(result.Successful)
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Player < result.Failed[j].Player
	})

	return result
}

// BatchKickResult contains the results of a batch kick operation
type BatchKickResult struct {
	Requested  int
	Successful []string
	Failed     []KickError
}

// KickError contains information about a failed kick
type KickError struct {
	Player string
	Err    error
}

// Error implements the error interface
func (e KickError) Error() string {
	return fmt.Sprintf("failed to kick %s: %v", e.Player, e.Err)
}

// Unwrap returns the underlying cause
func (e KickError) Unwrap() error {
	return e.Err
}
