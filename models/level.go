package models

// Level is an ordered progression rank: Bronze → Gold → Platinum.
type Level string

const (
	LevelBronze   Level = "Bronze"
	LevelGold     Level = "Gold"
	LevelPlatinum Level = "Platinum"
)

// LevelTier is static upgrade config: the cost debited from the balance and
// the one-time prize credited on upgrade. The net change is Prize - Cost as
// configured per tier — the ladder is deliberately net-positive.
type LevelTier struct {
	Level Level `json:"level"`
	Cost  int64 `json:"cost"`
	Prize int64 `json:"prize"`
}

// Tiers is the upgrade ladder in ascending order. Bronze is the starting rank
// and cannot be purchased.
var Tiers = []LevelTier{
	{Level: LevelBronze, Cost: 0, Prize: 0},
	{Level: LevelGold, Cost: 3000, Prize: 5000},
	{Level: LevelPlatinum, Cost: 10000, Prize: 15000},
}

// TierFor returns the tier config for a level, or false when the level is not
// part of the ladder.
func TierFor(level Level) (LevelTier, bool) {
	for _, t := range Tiers {
		if t.Level == level {
			return t, true
		}
	}
	return LevelTier{}, false
}

// NextTier returns the tier directly above current, or false when current is
// the top of the ladder (or not on it at all).
func NextTier(current Level) (LevelTier, bool) {
	for i, t := range Tiers {
		if t.Level == current {
			if i+1 < len(Tiers) {
				return Tiers[i+1], true
			}
			return LevelTier{}, false
		}
	}
	return LevelTier{}, false
}
