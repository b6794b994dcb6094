package dbtypes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeRoleLegacyString(t *testing.T) {
	got := NormalizeRole("Backend Developer")
	want := TeamRole{Name: "Backend Developer"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad normalized role; diff (-got +want)\n%s", diff)
	}
}

func TestNormalizeRoleStructuredMap(t *testing.T) {
	got := NormalizeRole(map[string]any{
		"id":               "r1",
		"name":             "Designer",
		"responsibilities": []any{"Own the design system"},
		"skills":           []any{"Figma", "CSS"},
		"contributions":    []any{"Mockups"},
	})
	want := TeamRole{
		ID:               "r1",
		Name:             "Designer",
		Responsibilities: []string{"Own the design system"},
		Skills:           []string{"Figma", "CSS"},
		Contributions:    []string{"Mockups"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad normalized role; diff (-got +want)\n%s", diff)
	}
}

func TestNormalizeRoleUnknownShape(t *testing.T) {
	got := NormalizeRole(42)
	if diff := cmp.Diff(got, TeamRole{}); diff != "" {
		t.Fatalf("Expected empty role for unknown shape; diff (-got +want)\n%s", diff)
	}
}

func TestNormalizedRolesMixedShapes(t *testing.T) {
	p := &PeopleNeeded{
		Roles: []any{
			"Community Manager",
			map[string]any{"name": "ML Engineer", "skills": []any{"Python"}},
		},
		Count: 2,
	}

	got := p.NormalizedRoles()
	want := []TeamRole{
		{Name: "Community Manager"},
		{Name: "ML Engineer", Skills: []string{"Python"}},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad normalized roles; diff (-got +want)\n%s", diff)
	}
}

func TestNormalizedRolesNilBlock(t *testing.T) {
	var p *PeopleNeeded
	if got := p.NormalizedRoles(); got != nil {
		t.Fatalf("Expected nil roles for nil block, got %+v", got)
	}
}

func TestSearchResultDropsEmail(t *testing.T) {
	p := &UserProfile{
		UID:         "u1",
		DisplayName: "Ada",
		Email:       "ada@example.com",
		PhotoURL:    "https://example.com/a.png",
		Bio:         "hi",
		Username:    "ada",
	}
	got := p.SearchResult()
	want := &UserSearchResult{
		UID:         "u1",
		DisplayName: "Ada",
		PhotoURL:    "https://example.com/a.png",
		Username:    "ada",
		Bio:         "hi",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad search result; diff (-got +want)\n%s", diff)
	}
}
