package graphio

// Tier is the distance of a work from the seed bibliography.
type Tier string

const (
	TierBase   Tier = "base"
	TierFirst  Tier = "first"
	TierSecond Tier = "second"
	TierOther  Tier = "other"
)

var tierColors = map[Tier]string{
	TierBase:   "#c47e63",
	TierFirst:  "#819a90",
	TierSecond: "#3c649f",
}

// OtherColor is used for nodes beyond the second tier.
const OtherColor = "#dccbb6"

// Color returns the node colour for the tier.
func (t Tier) Color() string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return OtherColor
}
