package main

import (
	"strings"
	"testing"

	"github.com/sonettogo/server/internal/data"
	"gopkg.in/yaml.v3"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"id":            "id",
		"skinId":        "skin_id",
		"criDmg":        "cri_dmg",
		"duplicateItem": "duplicate_item",
		"hero_rank":     "hero_rank",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToYAMLCharacter(t *testing.T) {
	raw := []byte(`{"character":[{"id":3086,"rare":5,"skinId":308603,"equipRec":"1501#1502"}]}`)
	out, rows, err := toYAML("character", raw)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d", rows)
	}
	var tables data.Tables
	if err := yaml.Unmarshal(out, &tables); err != nil {
		t.Fatal(err)
	}
	if len(tables.Character) != 1 {
		t.Fatalf("characters = %d", len(tables.Character))
	}
	c := tables.Character[0]
	if c.ID != 3086 || c.Rare != 5 || c.SkinID != 308603 || c.EquipRec != "1501#1502" {
		t.Fatalf("character = %+v", c)
	}
}

func TestToYAMLRejectsWrongTypes(t *testing.T) {
	raw := []byte(`{"month_card":[{"id":"not-a-number"}]}`)
	if _, _, err := toYAML("month_card", raw); err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("err = %v, want schema error", err)
	}
}

func TestToYAMLMissingKey(t *testing.T) {
	if _, _, err := toYAML("item", []byte(`{"skin":[]}`)); err == nil {
		t.Fatal("expected error for missing table key")
	}
}
