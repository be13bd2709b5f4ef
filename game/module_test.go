package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gambit/registry"
)

func loadBuiltin(t *testing.T) *registry.Catalog {
	t.Helper()
	c := registry.NewCatalog()
	_, err := c.Load(registry.DefaultNamespace, Register)
	require.NoError(t, err)
	return c
}

func TestRegister(t *testing.T) {
	c := loadBuiltin(t)

	t.Run("keys bind to the builtin values", func(t *testing.T) {
		require.Equal(t, registry.NewKey("chess", "king"), King.Key())
		require.Equal(t, "chess:white_queen", Queen.Of(White).Key().String())
		require.Equal(t, "Fifty Moves", FiftyMoves.Title())
		require.Equal(t, "chess:en_passant", EnPassant.String())

		v, err := Variants(c).Resolve("three_checks")
		require.NoError(t, err)
		require.Same(t, ThreeChecksVariant, v)

		k, ok := Variants(c).KeyOf(AntichessVariant)
		require.True(t, ok)
		require.Equal(t, "chess:antichess", k.String())

		require.Len(t, PieceTypes(c).Keys("chess"), 6)
		require.Len(t, TraitTypes(c).Values("chess"), 7)
	})

	t.Run("variants must use registered piece types", func(t *testing.T) {
		c := loadBuiltin(t)
		_, err := c.Load("fairy", func(m *registry.Module) error {
			return Variants(c).Register(m, "amazons", &amazonVariant{})
		})
		require.ErrorIs(t, err, registry.ErrValidation)
	})

	t.Run("piece letters are unique", func(t *testing.T) {
		c := loadBuiltin(t)
		_, err := c.Load("fairy", func(m *registry.Module) error {
			return PieceTypes(c).Register(m, "kangaroo", NewPieceType('k'))
		})
		require.NoError(t, err, "letters only clash within a module")

		_, err = c.Load("fairy2", func(m *registry.Module) error {
			require.NoError(t, PieceTypes(c).Register(m, "a", NewPieceType('a')))
			return PieceTypes(c).Register(m, "b", NewPieceType('a'))
		})
		require.ErrorIs(t, err, registry.ErrValidation)
	})
}

var amazon = NewPieceType('a')

type amazonVariant struct {
	Standard
}

func (*amazonVariant) PieceTypes() []*PieceType {
	return []*PieceType{King, amazon}
}
