package game

import (
	"fmt"

	"gambit/registry"
)

func PieceTypes(c *registry.Catalog) *registry.Registry[*PieceType] {
	return registry.Kind[*PieceType](c, "piece_type")
}

func Flags(c *registry.Catalog) *registry.Registry[*Flag] {
	return registry.Kind[*Flag](c, "flag")
}

func EndReasons(c *registry.Catalog) *registry.Registry[*EndReason] {
	return registry.Kind[*EndReason](c, "end_reason")
}

func TraitTypes(c *registry.Catalog) *registry.Registry[*TraitType] {
	return registry.Kind[*TraitType](c, "move_trait_type")
}

func Variants(c *registry.Catalog) *registry.Registry[Variant] {
	return registry.Kind[Variant](c, "variant")
}

// Register adds the builtin pieces, flags, end reasons, trait types and
// variants to m, and the validators that keep them consistent.
func Register(m *registry.Module) error {
	c := m.Catalog()
	pieces, variants := PieceTypes(c), Variants(c)

	pieces.AddValidator(func(k registry.Key, t *PieceType) error {
		for _, other := range pieces.Values(k.Module) {
			if other != t && other.Char() == t.Char() {
				return fmt.Errorf("piece char %q also used by %v", t.Char(), other)
			}
		}
		return nil
	})
	variants.AddValidator(func(k registry.Key, v Variant) error {
		for _, t := range v.PieceTypes() {
			if !pieces.Contains(t) {
				return fmt.Errorf("%w: piece type %v", registry.ErrKeyNotFound, t)
			}
		}
		return nil
	})

	steps := []func() error{
		func() error {
			return pieces.RegisterAll(m,
				registry.E("king", King),
				registry.E("queen", Queen),
				registry.E("rook", Rook),
				registry.E("bishop", Bishop),
				registry.E("knight", Knight),
				registry.E("pawn", Pawn),
			)
		},
		func() error {
			return Flags(c).Register(m, "en_passant", EnPassant)
		},
		func() error {
			return EndReasons(c).RegisterAll(m,
				registry.E("checkmate", Checkmate),
				registry.E("resignation", Resignation),
				registry.E("walkover", Walkover),
				registry.E("stalemate", Stalemate),
				registry.E("insufficient_material", InsufficientMaterial),
				registry.E("fifty_moves", FiftyMoves),
				registry.E("repetition", Repetition),
				registry.E("draw_agreement", DrawAgreement),
				registry.E("timeout", Timeout),
				registry.E("draw_timeout", DrawTimeout),
				registry.E("error", Error),
				registry.E("all_pieces_lost", AllPiecesLost),
				registry.E("stalemate_victory", StalemateVictory),
				registry.E("check_limit", CheckLimit),
			)
		},
		func() error {
			return TraitTypes(c).RegisterAll(m,
				registry.E("target", TargetTraitType),
				registry.E("capture", CaptureTraitType),
				registry.E("castles", CastlesTraitType),
				registry.E("promotion", PromotionTraitType),
				registry.E("require_flag", RequireFlagTraitType),
				registry.E("flag", FlagTraitType),
				registry.E("check", CheckTraitType),
			)
		},
		func() error {
			return variants.RegisterAll(m,
				registry.E[Variant]("standard", StandardVariant),
				registry.E[Variant]("antichess", AntichessVariant),
				registry.E[Variant]("three_checks", ThreeChecksVariant),
			)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
