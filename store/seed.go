package store

import "context"

// DefaultGenres are created at startup when missing.
var DefaultGenres = []string{"Action", "Adventure", "RPG", "Simulation", "Sport", "MMORPG"}

// Seed ensures every default genre exists. Running it again is a no-op.
func Seed(ctx context.Context, s Store) error {
	return s.EnsureGenres(ctx, DefaultGenres)
}
