package selection

import (
	"math/rand"
	"time"

	"assessment-service/internal/models"
)

// FallbackOrder is the fixed tier scan the session engine walks when the
// ideal tier has no eligible item left. The tier already tried is skipped.
var FallbackOrder = []models.DifficultyTier{
	models.TierIntermediate,
	models.TierBeginner,
	models.TierAdvanced,
	models.TierExpert,
}

// Picker abstracts the "pick one of n" choice so the engine's logic stays
// deterministic under test.
type Picker interface {
	Pick(n int) int
}

type randPicker struct {
	rand *rand.Rand
}

func (p *randPicker) Pick(n int) int {
	return p.rand.Intn(n)
}

// NewRandomPicker returns the production picker backed by math/rand.
func NewRandomPicker() Picker {
	return &randPicker{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Selector chooses the next item uniformly at random among eligible
// candidates of one tier.
type Selector struct {
	picker Picker
}

func NewSelector(picker Picker) *Selector {
	if picker == nil {
		picker = NewRandomPicker()
	}
	return &Selector{picker: picker}
}

// SelectNext returns an item at exactly tier whose id is not excluded, or
// false when the tier is exhausted. An excluded id is never re-offered.
func (s *Selector) SelectNext(bank []models.AssessableItem, tier models.DifficultyTier, excludeIDs []string) (*models.AssessableItem, bool) {
	candidates := eligible(bank, tier, excludeIDs)
	if len(candidates) == 0 {
		return nil, false
	}
	item := candidates[s.picker.Pick(len(candidates))]
	return &item, true
}

// HasEligible reports whether any item at tier remains selectable.
func HasEligible(bank []models.AssessableItem, tier models.DifficultyTier, excludeIDs []string) bool {
	return len(eligible(bank, tier, excludeIDs)) > 0
}

func eligible(bank []models.AssessableItem, tier models.DifficultyTier, excludeIDs []string) []models.AssessableItem {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	candidates := make([]models.AssessableItem, 0)
	for _, item := range bank {
		if item.Tier != tier || excluded[item.ID] {
			continue
		}
		candidates = append(candidates, item)
	}
	return candidates
}
