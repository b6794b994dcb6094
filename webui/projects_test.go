package webui

import (
	"net/url"
	"testing"

	"bezaspace/dbtypes"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilters(t *testing.T) {
	form := url.Values{
		"category":     {" AI/ML "},
		"technologies": {"TensorFlow, Go"},
		"location":     {"Berlin"},
		"status":       {"active"},
		"skills":       {"Python"},
		"has-funding":  {"on"},
		"remote-only":  {"on"},
		"q":            {" vision "},
	}

	got := parseFilters(form)
	want := &dbtypes.ProjectSearchFilters{
		Category:     "AI/ML",
		Technologies: []string{"TensorFlow", "Go"},
		Location:     "Berlin",
		Status:       "active",
		Skills:       []string{"Python"},
		HasFunding:   true,
		RemoteOnly:   true,
		Query:        "vision",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad filters; diff (-got +want)\n%s", diff)
	}
}

func TestParseFiltersEmptyFormIsZero(t *testing.T) {
	got := parseFilters(url.Values{})
	if !got.IsZero() {
		t.Errorf("Empty form produced non-zero filters: %+v", got)
	}
}

func TestParseStringList(t *testing.T) {
	got := parseStringList(" Go , , Rust,")
	want := []string{"Go", "Rust"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bad list; diff (-got +want)\n%s", diff)
	}
}
