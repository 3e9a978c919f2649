package models

// DifficultyTier is an ordered difficulty rating for assessable items.
type DifficultyTier string

const (
	TierBeginner     DifficultyTier = "beginner"
	TierIntermediate DifficultyTier = "intermediate"
	TierAdvanced     DifficultyTier = "advanced"
	TierExpert       DifficultyTier = "expert"
)

// tierRanks defines the total order over tiers.
var tierRanks = map[DifficultyTier]int{
	TierBeginner:     0,
	TierIntermediate: 1,
	TierAdvanced:     2,
	TierExpert:       3,
}

var tiersByRank = []DifficultyTier{TierBeginner, TierIntermediate, TierAdvanced, TierExpert}

func (t DifficultyTier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

func (t DifficultyTier) Rank() int {
	return tierRanks[t]
}

// NextUp returns the adjacent higher tier, capped at expert.
func (t DifficultyTier) NextUp() DifficultyTier {
	rank := tierRanks[t]
	if rank >= len(tiersByRank)-1 {
		return TierExpert
	}
	return tiersByRank[rank+1]
}

// NextDown returns the adjacent lower tier, floored at beginner.
func (t DifficultyTier) NextDown() DifficultyTier {
	rank := tierRanks[t]
	if rank <= 0 {
		return TierBeginner
	}
	return tiersByRank[rank-1]
}

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// AssessableItem is one entry of an item bank. Immutable once loaded.
type AssessableItem struct {
	ID              string         `bson:"_id,omitempty" json:"id"`
	BankID          string         `bson:"bank_id" json:"bank_id"`
	Prompt          string         `bson:"prompt" json:"prompt"`
	Options         []Option       `bson:"options" json:"options"`
	CorrectOptionID string         `bson:"correct_option_id" json:"correct_option_id"`
	Tier            DifficultyTier `bson:"tier" json:"tier"`
	Explanation     string         `bson:"explanation" json:"explanation"`
	TopicTags       []string       `bson:"topic_tags" json:"topic_tags"`
}

// IsCorrectOption reports whether the given option id is the item's answer key.
func (i *AssessableItem) IsCorrectOption(optionID string) bool {
	return optionID != "" && optionID == i.CorrectOptionID
}
