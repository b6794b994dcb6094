package uitemplates

import (
	"bytes"
	"strings"
	"testing"
)

// Executing every template with representative params catches bad field
// references, which only surface at execution time.
func TestTemplatesExecute(t *testing.T) {
	signedIn := ActiveUserParams{SignedIn: true, UID: "u1", DisplayName: "Ada"}
	cards := []*ProjectCardParams{
		{ID: "p1", Title: "Garden App", Category: "Community", Status: "active", CreatedOn: "2024-06-01", ShowLink: "/show-project?id=p1", CreatorName: "Ada", CreatorLink: "/show-user?uid=u1"},
	}

	execs := []struct {
		name string
		run  func(w *bytes.Buffer) error
		want string
	}{
		{"home", func(w *bytes.Buffer) error {
			return HomeTemplate.Execute(w, &HomeParams{ActiveUser: signedIn})
		}, "Start a Project"},
		{"login", func(w *bytes.Buffer) error {
			return LogInTemplate.Execute(w, &LogInParams{GoogleOAuthClientID: "client-id", UserError: "boom"})
		}, "client-id"},
		{"logout", func(w *bytes.Buffer) error {
			return LogOutTemplate.Execute(w, &LogOutParams{ActiveUser: signedIn})
		}, "Log Out"},
		{"browse", func(w *bytes.Buffer) error {
			return BrowseProjectsTemplate.Execute(w, &BrowseProjectsParams{ActiveUser: signedIn, Query: "garden", Projects: cards})
		}, "Garden App"},
		{"my-projects", func(w *bytes.Buffer) error {
			return MyProjectsTemplate.Execute(w, &MyProjectsParams{ActiveUser: signedIn, Projects: cards})
		}, "Garden App"},
		{"show-project", func(w *bytes.Buffer) error {
			return ShowProjectTemplate.Execute(w, &ShowProjectParams{
				ActiveUser: signedIn,
				IsOwner:    true,
				ID:         "p1",
				Title:      "Garden App",
				Status:     "active",
				Goals:      []string{"Launch"},
				Milestones: []*ShowProjectMilestone{{ID: "m1", Title: "Pilot", DueOn: "2024-07-01", Status: "pending"}},
				Tasks:      []*ShowProjectTask{{ID: "t1", Title: "Sketch", Status: "todo"}},
				Resources:  []*ShowProjectResource{{ID: "r1", Type: "funding", Name: "Grant", Amount: "500.00", Status: "secured"}},
				Roles:      []*ShowProjectRole{{Name: "Designer", Skills: "Figma"}},
			})
		}, "Pilot"},
		{"not-found", func(w *bytes.Buffer) error {
			return ProjectNotFoundTemplate.Execute(w, &ProjectNotFoundParams{ID: "nope"})
		}, "nope"},
		{"edit-project", func(w *bytes.Buffer) error {
			return EditProjectTemplate.Execute(w, &EditProjectParams{ActiveUser: signedIn, ID: "p1", Title: "Garden App", Status: "active"})
		}, "Garden App"},
		{"add-milestone", func(w *bytes.Buffer) error {
			return AddMilestoneTemplate.Execute(w, &AddItemParams{ActiveUser: signedIn, ProjectID: "p1", ProjectTitle: "Garden App"})
		}, "Add a Milestone"},
		{"add-task", func(w *bytes.Buffer) error {
			return AddTaskTemplate.Execute(w, &AddItemParams{ActiveUser: signedIn, ProjectID: "p1", ProjectTitle: "Garden App"})
		}, "Add a Task"},
		{"add-resource", func(w *bytes.Buffer) error {
			return AddResourceTemplate.Execute(w, &AddItemParams{ActiveUser: signedIn, ProjectID: "p1", ProjectTitle: "Garden App"})
		}, "Add a Resource"},
		{"create-project-step1", func(w *bytes.Buffer) error {
			return CreateProjectTemplate.Execute(w, &CreateProjectParams{ActiveUser: signedIn, Step: 1})
		}, "Step 1 of 6"},
		{"create-project-step4", func(w *bytes.Buffer) error {
			return CreateProjectTemplate.Execute(w, &CreateProjectParams{ActiveUser: signedIn, Step: 4, Roadmap: "Pilot garden"})
		}, "Roadmap"},
		{"create-project-step6", func(w *bytes.Buffer) error {
			return CreateProjectTemplate.Execute(w, &CreateProjectParams{ActiveUser: signedIn, Step: 6, Roles: "Designer"})
		}, "Create Project"},
		{"search-users", func(w *bytes.Buffer) error {
			return SearchUsersTemplate.Execute(w, &SearchUsersParams{ActiveUser: signedIn})
		}, "Find People"},
		{"show-user", func(w *bytes.Buffer) error {
			return ShowUserTemplate.Execute(w, &ShowUserParams{ActiveUser: signedIn, DisplayName: "Ada", Username: "ada", JoinedOn: "2024-01-01", Projects: cards})
		}, "@ada"},
		{"edit-profile", func(w *bytes.Buffer) error {
			return EditProfileTemplate.Execute(w, &EditProfileParams{ActiveUser: signedIn, DisplayName: "Ada"})
		}, "Edit Profile"},
	}

	for _, e := range execs {
		content := bytes.Buffer{}
		if err := e.run(&content); err != nil {
			t.Errorf("Template %s failed to execute: %v", e.name, err)
			continue
		}
		if !strings.Contains(content.String(), e.want) {
			t.Errorf("Template %s output does not contain %q", e.name, e.want)
		}
	}
}
