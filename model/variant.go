package model

// Variant is the reveal gesture assigned to a story unit
type Variant int

const (
	VariantGiftBox Variant = iota
	VariantScratchAccumulate
	VariantBurstTap
	VariantDropReveal
	VariantSealBreak
)

// Variants is the fixed cyclic assignment order
var Variants = [...]Variant{
	VariantGiftBox,
	VariantScratchAccumulate,
	VariantBurstTap,
	VariantDropReveal,
	VariantSealBreak,
}

// VariantFor returns the variant for a unit index, cycling through Variants
func VariantFor(index int) Variant {
	n := len(Variants)
	return Variants[((index%n)+n)%n]
}

func (v Variant) String() string {
	switch v {
	case VariantGiftBox:
		return "GiftBox"
	case VariantScratchAccumulate:
		return "ScratchAccumulate"
	case VariantBurstTap:
		return "BurstTap"
	case VariantDropReveal:
		return "DropReveal"
	case VariantSealBreak:
		return "SealBreak"
	default:
		return "Unknown"
	}
}

// Accumulates reports whether the variant needs repeated taps
func (v Variant) Accumulates() bool {
	return v == VariantScratchAccumulate
}
