package match

import (
	"fmt"

	"gambit/game"
	"gambit/registry"
)

func ComponentTypes(c *registry.Catalog) *registry.Registry[*ComponentType] {
	return registry.Kind[*ComponentType](c, "component_type")
}

// Register adds the match component types, and checks that every variant's
// required components are registered.
func Register(m *registry.Module) error {
	c := m.Catalog()
	types := ComponentTypes(c)
	game.Variants(c).AddValidator(func(k registry.Key, v game.Variant) error {
		for _, req := range v.RequiredComponents() {
			if _, ok := types.Lookup(req); !ok {
				return fmt.Errorf("%w: component type %v", registry.ErrKeyNotFound, req)
			}
		}
		return nil
	})
	return types.RegisterAll(m,
		registry.E("chessboard", ChessboardType),
		registry.E("requests", RequestsType),
		registry.E("check_counter", CheckCounterType),
	)
}
