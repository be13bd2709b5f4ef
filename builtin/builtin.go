// Package builtin loads the first-party module: pieces, variants, match
// components, sides and stats, all under the "chess" namespace.
package builtin

import (
	"gambit/clock"
	"gambit/game"
	"gambit/match"
	"gambit/player"
	"gambit/registry"
	"gambit/stats"
)

// Registers run in order; later ones may validate against earlier ones.
var Registers = []func(*registry.Module) error{
	game.Register,
	match.Register,
	clock.Register,
	player.Register,
	stats.Register,
}

func Load(c *registry.Catalog) (*registry.Module, error) {
	return c.Load(registry.DefaultNamespace, func(m *registry.Module) error {
		for _, register := range Registers {
			if err := register(m); err != nil {
				return err
			}
		}
		return nil
	})
}

// Catalog is a new catalog with the builtin module loaded.
func Catalog() (*registry.Catalog, error) {
	c := registry.NewCatalog()
	if _, err := Load(c); err != nil {
		return nil, err
	}
	return c, nil
}
