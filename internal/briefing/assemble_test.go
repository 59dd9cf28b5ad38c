package briefing

import (
	"testing"
	"time"
)

func TestAssembleFillsIdentity(t *testing.T) {
	cards := []BriefingCard{{Title: "a"}, {Title: "b"}}
	res := Assemble(cards, TierLive, 4, 2, "")
	if !res.Success {
		t.Error("assembled result must report success")
	}
	if res.Source != TierLive {
		t.Errorf("tier label lost: %q", res.Source)
	}
	if res.NewsItemsUsed != 4 || res.RagDocsUsed != 2 {
		t.Errorf("provenance counts wrong: %d/%d", res.NewsItemsUsed, res.RagDocsUsed)
	}
	seen := map[string]bool{}
	for _, card := range res.Cards {
		if card.ID == "" {
			t.Error("card id not filled")
		}
		if seen[card.ID] {
			t.Errorf("duplicate card id %q", card.ID)
		}
		seen[card.ID] = true
		if card.Timestamp.IsZero() {
			t.Error("card timestamp not filled")
		}
	}
}

func TestAssemblePreservesExistingValues(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cards := []BriefingCard{{ID: "fixed-id", Timestamp: ts}}
	res := Assemble(cards, TierStaticFallback, 0, 0, "note")
	if res.Cards[0].ID != "fixed-id" {
		t.Errorf("existing id overwritten: %q", res.Cards[0].ID)
	}
	if !res.Cards[0].Timestamp.Equal(ts) {
		t.Errorf("existing timestamp overwritten: %v", res.Cards[0].Timestamp)
	}
	if res.Note != "note" {
		t.Errorf("note lost: %q", res.Note)
	}
}

func TestStaticCardsCoverEveryCategory(t *testing.T) {
	cards := StaticCards(time.Now().UTC())
	if len(cards) == 0 {
		t.Fatal("static catalog must never be empty")
	}
	categories := map[string]bool{}
	for _, card := range cards {
		categories[card.Category] = true
		if card.Title == "" || card.Summary == "" {
			t.Errorf("static card missing content: %+v", card)
		}
	}
	for _, want := range []string{CategoryCurrentEvents, CategoryBusiness, CategoryWeather, CategoryQuestion, CategoryPolicy} {
		if !categories[want] {
			t.Errorf("static catalog missing category %q", want)
		}
	}
}
