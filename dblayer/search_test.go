package dblayer

import (
	"testing"
	"time"

	"bezaspace/dbtypes"

	"github.com/google/go-cmp/cmp"
)

func fixtureProjects() []*dbtypes.Project {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []*dbtypes.Project{
		{
			ID:           "ml-remote-1",
			Title:        "Wildlife Classifier",
			Description:  "Classify camera trap images",
			Category:     "AI/ML",
			Status:       dbtypes.ProjectStatusActive,
			CreatedAt:    base.Add(5 * time.Hour),
			Technologies: []string{"Python", "TensorFlow"},
			Location:     &dbtypes.Location{Type: dbtypes.LocationTypeRemote},
			Resources: []*dbtypes.Resource{
				{ID: "r1", Type: dbtypes.ResourceTypeFunding, Name: "Seed grant", Amount: 5000, Status: dbtypes.ResourceStatusSecured},
			},
		},
		{
			ID:          "ml-remote-2",
			Title:       "Translation Models",
			Description: "Low-resource language translation",
			Category:    "AI/ML",
			Status:      dbtypes.ProjectStatusActive,
			CreatedAt:   base.Add(4 * time.Hour),
			Location:    &dbtypes.Location{Type: dbtypes.LocationTypeRemote},
			PeopleNeeded: &dbtypes.PeopleNeeded{
				Roles: []any{
					map[string]any{"name": "ML Engineer", "skills": []any{"PyTorch", "NLP"}},
				},
				Count: 1,
			},
		},
		{
			ID:        "ml-onsite",
			Title:     "Robotics Lab",
			Category:  "AI/ML",
			Status:    dbtypes.ProjectStatusActive,
			CreatedAt: base.Add(3 * time.Hour),
			Location:  &dbtypes.Location{Type: dbtypes.LocationTypeOnsite, City: "Addis Ababa", Country: "Ethiopia"},
		},
		{
			ID:           "web-remote",
			Title:        "Community Portal",
			Description:  "A portal for local groups",
			Category:     "Web Development",
			Status:       dbtypes.ProjectStatusCompleted,
			CreatedAt:    base.Add(2 * time.Hour),
			Technologies: []string{"Go", "PostgreSQL"},
			Location:     &dbtypes.Location{Type: dbtypes.LocationTypeRemote},
			Goals:        []string{"Launch a pilot in three neighborhoods"},
			PeopleNeeded: &dbtypes.PeopleNeeded{
				Roles: []any{"Backend Developer"},
				Count: 2,
			},
		},
		{
			ID:        "art-remote",
			Title:     "Mural Archive",
			Category:  "Arts",
			Status:    dbtypes.ProjectStatusActive,
			CreatedAt: base.Add(1 * time.Hour),
			Location:  &dbtypes.Location{Type: dbtypes.LocationTypeRemote},
			Outcomes:  []string{"A public gallery of murals"},
		},
	}
}

func filteredIDs(t *testing.T, filters *dbtypes.ProjectSearchFilters) []string {
	t.Helper()
	var ids []string
	for _, p := range FilterProjects(fixtureProjects(), filters) {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFilterProjectsCategoryAndRemote(t *testing.T) {
	// 3 AI/ML projects (2 remote, 1 onsite) and 2 non-AI/ML remote projects;
	// only the 2 remote AI/ML projects match.
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Category: "AI/ML", RemoteOnly: true})
	want := []string{"ml-remote-1", "ml-remote-2"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}

func TestFilterProjectsNoFiltersPassesEverything(t *testing.T) {
	got := FilterProjects(fixtureProjects(), &dbtypes.ProjectSearchFilters{})
	if len(got) != 5 {
		t.Fatalf("Got %d projects, want 5", len(got))
	}
}

func TestFilterProjectsTechnologies(t *testing.T) {
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Technologies: []string{"tensor"}})
	want := []string{"ml-remote-1"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}

func TestFilterProjectsLocationText(t *testing.T) {
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Location: "ethiopia"})
	want := []string{"ml-onsite"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}

func TestFilterProjectsStatus(t *testing.T) {
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Status: dbtypes.ProjectStatusCompleted})
	want := []string{"web-remote"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}

func TestFilterProjectsSkillsStructuredRole(t *testing.T) {
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Skills: []string{"pytorch"}})
	want := []string{"ml-remote-2"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}

func TestFilterProjectsSkillsToleratesLegacyStringRoles(t *testing.T) {
	// web-remote carries a legacy string role; a skills filter must not match
	// it, and must not blow up on it either.
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Skills: []string{"Go"}})
	if len(got) != 0 {
		t.Fatalf("Got %v, want no matches", got)
	}
}

func TestFilterProjectsHasFunding(t *testing.T) {
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{HasFunding: true})
	want := []string{"ml-remote-1"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}

func TestFilterProjectsFreeText(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title", query: "wildlife", want: []string{"ml-remote-1"}},
		{name: "description", query: "local groups", want: []string{"web-remote"}},
		{name: "technology", query: "postgres", want: []string{"web-remote"}},
		{name: "goal", query: "pilot", want: []string{"web-remote"}},
		{name: "outcome", query: "gallery", want: []string{"art-remote"}},
		{name: "no match", query: "blockchain", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := filteredIDs(t, &dbtypes.ProjectSearchFilters{Query: tc.query})
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestFilterProjectsIntersection(t *testing.T) {
	// Remote + completed: only web-remote is both.
	got := filteredIDs(t, &dbtypes.ProjectSearchFilters{
		Status:     dbtypes.ProjectStatusCompleted,
		RemoteOnly: true,
	})
	want := []string{"web-remote"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad matches; diff (-got +want)\n%s", diff)
	}
}
