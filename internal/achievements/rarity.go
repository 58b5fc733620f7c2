package achievements

// Rarity is the prestige tier of an achievement.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// Color returns the hex color used to draw the rarity.
func (r Rarity) Color() string {
	switch r {
	case RarityRare:
		return "#3B82F6"
	case RarityEpic:
		return "#8B5CF6"
	case RarityLegendary:
		return "#F59E0B"
	default:
		return "#9CA3AF"
	}
}

// Valid reports whether r is one of the known rarities.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}
