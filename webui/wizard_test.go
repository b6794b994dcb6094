package webui

import (
	"net/url"
	"testing"

	"bezaspace/dbtypes"

	"github.com/google/go-cmp/cmp"
)

func TestWizardStepsAccumulate(t *testing.T) {
	draft := newProjectDraft()

	steps := []struct {
		step int
		form url.Values
	}{
		{wizardStepBasics, url.Values{
			"title":         {"Community Garden App"},
			"description":   {"Coordinate plots and watering."},
			"category":      {"Community"},
			"location-type": {"hybrid"},
			"city":          {"Lisbon"},
			"country":       {"Portugal"},
		}},
		{wizardStepGoals, url.Values{"goals": {"Launch pilot\nSign up 3 gardens"}}},
		{wizardStepOutcomes, url.Values{"outcomes": {"Less wasted water"}}},
		{wizardStepRoadmap, url.Values{"roadmap": {"Pilot garden | One block, ten plots\nCity-wide rollout"}}},
		{wizardStepTechnologies, url.Values{"technologies": {"Go, Firestore"}}},
		{wizardStepTeam, url.Values{
			"roles":        {"Designer\nGardener"},
			"skills":       {"Figma, Botany"},
			"people-count": {"2"},
		}},
	}

	for _, s := range steps {
		if userErr := applyWizardStep(draft, s.step, s.form); userErr != "" {
			t.Fatalf("Step %d rejected: %s", s.step, userErr)
		}
	}

	want := dbtypes.ProjectFormData{
		Title:       "Community Garden App",
		Description: "Coordinate plots and watering.",
		Category:    "Community",
		Location: &dbtypes.Location{
			Type:    "hybrid",
			City:    "Lisbon",
			Country: "Portugal",
		},
		Goals:    []string{"Launch pilot", "Sign up 3 gardens"},
		Outcomes: []string{"Less wasted water"},
		Roadmap: []*dbtypes.Milestone{
			{Title: "Pilot garden", Description: "One block, ten plots"},
			{Title: "City-wide rollout"},
		},
		Technologies: []string{"Go", "Firestore"},
		PeopleNeeded: &dbtypes.PeopleNeeded{
			Roles:  []any{dbtypes.TeamRole{Name: "Designer"}, dbtypes.TeamRole{Name: "Gardener"}},
			Count:  2,
			Skills: []string{"Figma", "Botany"},
		},
	}
	if diff := cmp.Diff(draft.Data, want); diff != "" {
		t.Errorf("Bad accumulated draft; diff (-got +want)\n%s", diff)
	}
	if draft.Step != wizardStepTeam {
		t.Errorf("Draft stopped at step %d, want %d", draft.Step, wizardStepTeam)
	}
}

func TestWizardBasicsValidation(t *testing.T) {
	draft := newProjectDraft()

	userErr := applyWizardStep(draft, wizardStepBasics, url.Values{
		"title":       {""},
		"description": {"Something"},
		"category":    {"Art"},
	})
	if userErr == "" {
		t.Fatal("Empty title was accepted")
	}
	if draft.Step != wizardStepBasics {
		t.Errorf("Draft advanced to step %d on a rejected submit", draft.Step)
	}
	if draft.Data.Title != "" || draft.Data.Description != "" {
		t.Errorf("Rejected submit still modified the draft: %+v", draft.Data)
	}
}

func TestWizardRejectsUnknownLocationType(t *testing.T) {
	draft := newProjectDraft()

	userErr := applyWizardStep(draft, wizardStepBasics, url.Values{
		"title":         {"T"},
		"description":   {"D"},
		"category":      {"C"},
		"location-type": {"floating"},
	})
	if userErr == "" {
		t.Fatal("Unknown location type was accepted")
	}
}

func TestWizardRejectsNegativePeopleCount(t *testing.T) {
	draft := newProjectDraft()
	draft.Step = wizardStepTeam

	userErr := applyWizardStep(draft, wizardStepTeam, url.Values{
		"people-count": {"-3"},
	})
	if userErr == "" {
		t.Fatal("Negative people count was accepted")
	}
}

func TestWizardEmptyTeamStepClearsBlock(t *testing.T) {
	draft := newProjectDraft()
	draft.Step = wizardStepTeam
	draft.Data.PeopleNeeded = &dbtypes.PeopleNeeded{Count: 4}

	if userErr := applyWizardStep(draft, wizardStepTeam, url.Values{}); userErr != "" {
		t.Fatalf("Empty team step rejected: %s", userErr)
	}
	if draft.Data.PeopleNeeded != nil {
		t.Errorf("Empty team step left %+v, want nil", draft.Data.PeopleNeeded)
	}
}

func TestWizardRevisitingEarlierStepDoesNotAdvance(t *testing.T) {
	draft := newProjectDraft()
	draft.Step = wizardStepTechnologies

	userErr := applyWizardStep(draft, wizardStepBasics, url.Values{
		"title":       {"New Title"},
		"description": {"D"},
		"category":    {"C"},
	})
	if userErr != "" {
		t.Fatalf("Revisit rejected: %s", userErr)
	}
	if draft.Step != wizardStepTechnologies {
		t.Errorf("Revisiting step 1 moved the draft to step %d", draft.Step)
	}
	if draft.Data.Title != "New Title" {
		t.Errorf("Revisit did not apply: title is %q", draft.Data.Title)
	}
}

func TestParseRoadmap(t *testing.T) {
	got := parseRoadmap("First step | with detail\n\n  Second step  \n| description without a title\n")
	want := []*dbtypes.Milestone{
		{Title: "First step", Description: "with detail"},
		{Title: "Second step"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad roadmap; diff (-got +want)\n%s", diff)
	}
}

func TestRoadmapLinesRoundTrips(t *testing.T) {
	original := "Pilot garden | One block, ten plots\nCity-wide rollout"
	if got := roadmapLines(parseRoadmap(original)); got != original {
		t.Errorf("Round trip gave %q, want %q", got, original)
	}
}

func TestParseLines(t *testing.T) {
	got := parseLines("  first\n\n second \n")
	want := []string{"first", "second"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad lines; diff (-got +want)\n%s", diff)
	}
}
