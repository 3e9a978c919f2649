package selection

import (
	"testing"

	"assessment-service/internal/models"
)

type stubPicker struct{ idx int }

func (p stubPicker) Pick(n int) int {
	return p.idx % n
}

func testBank() []models.AssessableItem {
	return []models.AssessableItem{
		{ID: "beg-1", Tier: models.TierBeginner},
		{ID: "int-1", Tier: models.TierIntermediate},
		{ID: "int-2", Tier: models.TierIntermediate},
		{ID: "int-3", Tier: models.TierIntermediate},
		{ID: "adv-1", Tier: models.TierAdvanced},
	}
}

func TestSelectNext_MatchesRequestedTier(t *testing.T) {
	s := NewSelector(stubPicker{idx: 0})

	item, ok := s.SelectNext(testBank(), models.TierIntermediate, nil)
	if !ok {
		t.Fatal("expected an eligible item")
	}
	if item.Tier != models.TierIntermediate {
		t.Errorf("expected intermediate item, got %s at tier %s", item.ID, item.Tier)
	}
}

func TestSelectNext_NeverReoffersExcluded(t *testing.T) {
	exclude := []string{"int-1", "int-3"}

	// Whatever the picker does, the only candidate left is int-2.
	for idx := 0; idx < 5; idx++ {
		s := NewSelector(stubPicker{idx: idx})
		item, ok := s.SelectNext(testBank(), models.TierIntermediate, exclude)
		if !ok {
			t.Fatalf("picker index %d: expected an eligible item", idx)
		}
		if item.ID != "int-2" {
			t.Errorf("picker index %d: expected int-2, got %s", idx, item.ID)
		}
	}
}

func TestSelectNext_ExhaustedTier(t *testing.T) {
	s := NewSelector(stubPicker{})

	if _, ok := s.SelectNext(testBank(), models.TierExpert, nil); ok {
		t.Error("expected no item at an empty tier")
	}
	if _, ok := s.SelectNext(testBank(), models.TierAdvanced, []string{"adv-1"}); ok {
		t.Error("expected no item once the tier's only item is excluded")
	}
}

func TestHasEligible(t *testing.T) {
	if !HasEligible(testBank(), models.TierBeginner, nil) {
		t.Error("expected beginner tier to be eligible")
	}
	if HasEligible(testBank(), models.TierBeginner, []string{"beg-1"}) {
		t.Error("expected beginner tier exhausted after exclusion")
	}
	if HasEligible(nil, models.TierIntermediate, nil) {
		t.Error("expected empty bank to have nothing eligible")
	}
}

func TestFallbackOrder_MidFirstThenEasier(t *testing.T) {
	expected := []models.DifficultyTier{
		models.TierIntermediate,
		models.TierBeginner,
		models.TierAdvanced,
		models.TierExpert,
	}
	if len(FallbackOrder) != len(expected) {
		t.Fatalf("expected %d tiers in fallback order, got %d", len(expected), len(FallbackOrder))
	}
	for i, tier := range expected {
		if FallbackOrder[i] != tier {
			t.Errorf("fallback position %d: expected %s, got %s", i, tier, FallbackOrder[i])
		}
	}
}

func TestRandomPickerStaysInRange(t *testing.T) {
	p := NewRandomPicker()
	for i := 0; i < 100; i++ {
		got := p.Pick(3)
		if got < 0 || got > 2 {
			t.Fatalf("pick out of range: %d", got)
		}
	}
}
