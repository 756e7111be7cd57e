package service

import (
	"testing"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/styles"
)

func TestDecodeLayout_FillsGapsPermissively(t *testing.T) {
	registry := newTestRegistry()
	payload := []byte(`{
		"scope_id": "stale",
		"sections": [
			{"id": "a", "kind": "Hero", "settings": {"heading": "Hi", "legacy_flag": true}},
			{"id": "a", "kind": "newsletter", "is_active": false},
			{"kind": "custom_code", "code": "<p>raw</p>"}
		]
	}`)

	doc, err := DecodeLayout(payload, "global", registry)
	if err != nil {
		t.Fatalf("DecodeLayout returned error: %v", err)
	}
	if doc.ScopeID != "global" {
		t.Fatalf("expected scope override, got %q", doc.ScopeID)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}

	hero := doc.Sections[0]
	if hero.Kind != models.KindHero || !hero.IsActive {
		t.Fatalf("expected active hero, got %+v", hero)
	}
	if hero.Settings.String("heading", "") != "Hi" {
		t.Fatalf("expected stored heading to win over default")
	}
	if !hero.Settings.Has("button_text") {
		t.Fatalf("expected missing defaults to be filled")
	}
	if !hero.Settings.Bool("legacy_flag", false) {
		t.Fatalf("expected unknown keys to be kept")
	}

	newsletter := doc.Sections[1]
	if newsletter.ID == "a" || newsletter.ID == "" {
		t.Fatalf("expected duplicate id to be replaced, got %q", newsletter.ID)
	}
	if newsletter.IsActive {
		t.Fatalf("expected explicit is_active=false to be kept")
	}
	if newsletter.Settings == nil {
		t.Fatalf("expected settings to be initialised")
	}

	custom := doc.Sections[2]
	if custom.ID == "" {
		t.Fatalf("expected missing id to be generated")
	}
	if custom.Code != "<p>raw</p>" {
		t.Fatalf("expected code to be kept verbatim, got %q", custom.Code)
	}
}

func TestDecodeLayout_ReplacesIDsWithCollidingAnchors(t *testing.T) {
	payload := []byte(`{
		"scope_id": "global",
		"sections": [
			{"id": "a.b", "kind": "hero"},
			{"id": "a-b", "kind": "newsletter"},
			{"id": "a b", "kind": "videos"}
		]
	}`)

	doc, err := DecodeLayout(payload, "", newTestRegistry())
	if err != nil {
		t.Fatalf("DecodeLayout returned error: %v", err)
	}
	if doc.Sections[0].ID != "a.b" {
		t.Fatalf("expected the first id to be kept, got %q", doc.Sections[0].ID)
	}

	anchors := map[string]bool{}
	for _, section := range doc.Sections {
		anchor := styles.SectionAnchor(section.ID)
		if anchors[anchor] {
			t.Fatalf("anchor %q is used by more than one section", anchor)
		}
		anchors[anchor] = true
	}
}

func TestDecodeLayout_UsesStoredScopeWhenNoneGiven(t *testing.T) {
	doc, err := DecodeLayout([]byte(`{"scope_id":"product:3"}`), "", newTestRegistry())
	if err != nil {
		t.Fatalf("DecodeLayout returned error: %v", err)
	}
	if doc.ScopeID != "product:3" {
		t.Fatalf("expected stored scope, got %q", doc.ScopeID)
	}
	if doc.Sections == nil {
		t.Fatalf("expected non-nil sections")
	}
}

func TestDecodeLayout_RejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeLayout([]byte("["), "global", newTestRegistry()); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestEncodeLayout_NilSectionsBecomeEmptyArray(t *testing.T) {
	payload, err := EncodeLayout(models.LayoutDocument{ScopeID: "global"})
	if err != nil {
		t.Fatalf("EncodeLayout returned error: %v", err)
	}
	if string(payload) != `{"scope_id":"global","sections":[]}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}
