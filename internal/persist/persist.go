// Package persist encodes rounds and games and keeps them in a KV store.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/verte-zerg/mulligan/internal/model"
	"github.com/verte-zerg/mulligan/internal/store"
)

// Storage keys.
const (
	GamesKey = "savedGames"
	RoundKey = "inProgressRound"
)

// ErrWrite marks a storage write that did not complete.
var ErrWrite = errors.New("storage write failed")

// Repository reads and writes the saved games list and the single
// in-progress round slot.
type Repository struct {
	kv     store.KV
	logger *slog.Logger
}

// New returns a repository over kv. A nil logger discards output.
func New(kv store.KV, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{kv: kv, logger: logger}
}

// LoadGames returns every stored game in insertion order. Missing or
// unreadable data yields an empty list.
func (r *Repository) LoadGames(ctx context.Context) []model.Game {
	data, ok := r.read(ctx, GamesKey)
	if !ok {
		return []model.Game{}
	}
	games, err := DecodeGames(data)
	if err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable games", "key", GamesKey, "error", err)
		return []model.Game{}
	}
	return games
}

// AppendGame adds game to the end of the stored list. A failed read leaves
// the stored list untouched; only unreadable bytes are replaced.
func (r *Repository) AppendGame(ctx context.Context, game model.Game) error {
	games, err := r.loadGamesForWrite(ctx)
	if err != nil {
		return err
	}
	games = append(games, game)
	data, err := EncodeGames(games)
	if err != nil {
		return fmt.Errorf("%w: encode games: %v", ErrWrite, err)
	}
	if err := r.kv.Put(ctx, GamesKey, data); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrWrite, GamesKey, err)
	}
	r.logger.DebugContext(ctx, "game appended", "game_id", game.ID.String(), "games", len(games))
	return nil
}

// ClearGames removes the whole history.
func (r *Repository) ClearGames(ctx context.Context) error {
	if err := r.kv.Delete(ctx, GamesKey); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrWrite, GamesKey, err)
	}
	return nil
}

// LoadRound returns the saved in-progress round, if any. Unreadable data is
// treated as absent.
func (r *Repository) LoadRound(ctx context.Context) (model.InProgressRound, bool) {
	data, ok := r.read(ctx, RoundKey)
	if !ok {
		return model.InProgressRound{}, false
	}
	round, err := DecodeRound(data)
	if err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable round", "key", RoundKey, "error", err)
		return model.InProgressRound{}, false
	}
	return round, true
}

// SaveRound overwrites the in-progress slot.
func (r *Repository) SaveRound(ctx context.Context, round model.InProgressRound) error {
	data, err := EncodeRound(round)
	if err != nil {
		return fmt.Errorf("%w: encode round: %v", ErrWrite, err)
	}
	if err := r.kv.Put(ctx, RoundKey, data); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrWrite, RoundKey, err)
	}
	return nil
}

// ClearRound empties the in-progress slot.
func (r *Repository) ClearRound(ctx context.Context) error {
	if err := r.kv.Delete(ctx, RoundKey); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrWrite, RoundKey, err)
	}
	return nil
}

func (r *Repository) loadGamesForWrite(ctx context.Context) ([]model.Game, error) {
	data, err := r.kv.Get(ctx, GamesKey)
	if errors.Is(err, store.ErrNotFound) {
		return []model.Game{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrWrite, GamesKey, err)
	}
	games, err := DecodeGames(data)
	if err != nil {
		r.logger.WarnContext(ctx, "replacing unreadable games", "key", GamesKey, "error", err)
		return []model.Game{}, nil
	}
	return games, nil
}

func (r *Repository) read(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.WarnContext(ctx, "storage read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// EncodeGames serializes an ordered list of games.
func EncodeGames(games []model.Game) ([]byte, error) {
	if games == nil {
		games = []model.Game{}
	}
	return json.Marshal(games)
}

// DecodeGames parses data written by EncodeGames.
func DecodeGames(data []byte) ([]model.Game, error) {
	var games []model.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = []model.Game{}
	}
	return games, nil
}

// EncodeRound serializes an in-progress round.
func EncodeRound(round model.InProgressRound) ([]byte, error) {
	return json.Marshal(round)
}

// DecodeRound parses data written by EncodeRound.
func DecodeRound(data []byte) (model.InProgressRound, error) {
	var round model.InProgressRound
	if err := json.Unmarshal(data, &round); err != nil {
		return model.InProgressRound{}, err
	}
	if round.Course.Name == "" && len(round.Course.Holes) == 0 {
		return model.InProgressRound{}, errors.New("round has no course")
	}
	return round, nil
}
