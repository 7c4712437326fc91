// Package tier resolves a user's subscription tier.
package tier

// Tier enumerates the subscription levels.
type Tier string

const (
	// TierFree is the default tier for every account.
	TierFree Tier = "free"
	// TierStarter is the entry paid tier.
	TierStarter Tier = "starter"
	// TierProfessional unlocks the full analytics surface.
	TierProfessional Tier = "professional"
)

var tierRank = map[Tier]int{
	TierFree:         0,
	TierStarter:      1,
	TierProfessional: 2,
}

// Valid reports whether t is a known tier value.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// AtLeast reports whether t meets or exceeds the required tier. Unknown
// values rank below free so malformed data never unlocks anything.
func (t Tier) AtLeast(required Tier) bool {
	tr, ok := tierRank[t]
	if !ok {
		tr = -1
	}
	return tr >= tierRank[required]
}
