package webui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bezaspace/auth"
	"bezaspace/dblayer"
	"bezaspace/dbtypes"
	"bezaspace/webui/uitemplates"

	"github.com/golang/glog"
)

func showProjectLink(projectID string) string {
	q := url.Values{}
	q.Add("id", projectID)
	link := &url.URL{
		Path:     "/show-project",
		RawQuery: q.Encode(),
	}
	return link.String()
}

func editProjectLink(projectID, userError string) string {
	q := url.Values{}
	q.Add("id", projectID)
	if userError != "" {
		q.Add("user-error", userError)
	}
	link := &url.URL{
		Path:     "/edit-project",
		RawQuery: q.Encode(),
	}
	return link.String()
}

func addMilestoneLink(projectID, userError string) string {
	q := url.Values{}
	q.Add("id", projectID)
	if userError != "" {
		q.Add("user-error", userError)
	}
	link := &url.URL{
		Path:     "/add-milestone",
		RawQuery: q.Encode(),
	}
	return link.String()
}

func addResourceLink(projectID, userError string) string {
	q := url.Values{}
	q.Add("id", projectID)
	if userError != "" {
		q.Add("user-error", userError)
	}
	link := &url.URL{
		Path:     "/add-resource",
		RawQuery: q.Encode(),
	}
	return link.String()
}

func addTaskLink(projectID, userError string) string {
	q := url.Values{}
	q.Add("id", projectID)
	if userError != "" {
		q.Add("user-error", userError)
	}
	link := &url.URL{
		Path:     "/add-task",
		RawQuery: q.Encode(),
	}
	return link.String()
}

// parseStringList splits a comma-separated form value into trimmed non-empty
// entries.
func parseStringList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFilters reads the browse-page filter form.
func parseFilters(form url.Values) *dbtypes.ProjectSearchFilters {
	return &dbtypes.ProjectSearchFilters{
		Category:     strings.TrimSpace(form.Get("category")),
		Technologies: parseStringList(form.Get("technologies")),
		Location:     strings.TrimSpace(form.Get("location")),
		Status:       strings.TrimSpace(form.Get("status")),
		Skills:       parseStringList(form.Get("skills")),
		HasFunding:   form.Get("has-funding") == "on",
		RemoteOnly:   form.Get("remote-only") == "on",
		Query:        strings.TrimSpace(form.Get("q")),
	}
}

// projectCard builds the card-level view of a project, resolving the creator
// name through the user cache.
func (u *WebUI) projectCard(ctx context.Context, p *dbtypes.Project) *uitemplates.ProjectCardParams {
	card := &uitemplates.ProjectCardParams{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Status:      p.Status,
		CreatedOn:   p.CreatedAt.Format("2006-01-02"),
		ShowLink:    showProjectLink(p.ID),
	}

	creator, err := u.users.FetchUserByID(ctx, p.CreatedBy)
	if err != nil {
		// The card is still useful without the creator name.
		glog.Errorf("Error while resolving creator %s: %v", p.CreatedBy, err)
		return card
	}
	if creator != nil {
		card.CreatorName = creator.DisplayName
		card.CreatorLink = showUserLink(creator.UID)
	}

	return card
}

// browseProjectsHandler renders the public browse page, filtered when any
// filter field is set.
func (u *WebUI) browseProjectsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/browse-projects" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	filters := parseFilters(r.Form)

	var projects []*dbtypes.Project
	if filters.IsZero() {
		projects, err = u.db.GetAllProjects(ctx)
	} else {
		projects, err = u.db.SearchProjects(ctx, filters)
	}
	if err != nil {
		glog.Errorf("Error while loading projects: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	params := &uitemplates.BrowseProjectsParams{
		ActiveUser:   activeUser(identity),
		Category:     filters.Category,
		Technologies: strings.Join(filters.Technologies, ", "),
		Location:     filters.Location,
		Status:       filters.Status,
		Skills:       strings.Join(filters.Skills, ", "),
		HasFunding:   filters.HasFunding,
		RemoteOnly:   filters.RemoteOnly,
		Query:        filters.Query,
	}
	for _, p := range projects {
		params.Projects = append(params.Projects, u.projectCard(ctx, p))
	}

	content := bytes.Buffer{}
	if err := uitemplates.BrowseProjectsTemplate.Execute(&content, params); err != nil {
		glog.Errorf("Error while executing template: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(w, &content); err != nil {
		// It's too late to write an error to the HTTP response.
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

// showProjectHandler renders one project, or a dedicated not-found page when
// the id matches nothing.
func (u *WebUI) showProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/show-project" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("id")

	project, err := u.db.GetProjectByID(ctx, projectID)
	if err != nil {
		glog.Errorf("Error while loading project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if project == nil {
		// Absence is an ordinary outcome with its own page, not a bare 404.
		params := &uitemplates.ProjectNotFoundParams{
			ActiveUser: activeUser(identity),
			ID:         projectID,
		}
		content := bytes.Buffer{}
		if err := uitemplates.ProjectNotFoundTemplate.Execute(&content, params); err != nil {
			glog.Errorf("Error while executing template: %v", err)
			http.Error(w, "Internal Error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		if _, err := io.Copy(w, &content); err != nil {
			glog.Errorf("Error while writing output: %v", err)
		}
		return
	}

	params := u.showProjectParams(ctx, project, identity)
	params.UserError = r.Form.Get("user-error")

	content := bytes.Buffer{}
	if err := uitemplates.ShowProjectTemplate.Execute(&content, params); err != nil {
		glog.Errorf("Error while executing template: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(w, &content); err != nil {
		// It's too late to write an error to the HTTP response.
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

func (u *WebUI) showProjectParams(ctx context.Context, project *dbtypes.Project, identity *auth.Identity) *uitemplates.ShowProjectParams {
	params := &uitemplates.ShowProjectParams{
		ActiveUser:   activeUser(identity),
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Category:     project.Category,
		Status:       project.Status,
		CreatedOn:    project.CreatedAt.Format("2006-01-02"),
		Goals:        project.Goals,
		Outcomes:     project.Outcomes,
		Technologies: project.Technologies,
		ImageURLs:    project.ImageURLs,

		SelfLink:         showProjectLink(project.ID),
		EditLink:         editProjectLink(project.ID, ""),
		AddMilestoneLink: addMilestoneLink(project.ID, ""),
		AddTaskLink:      addTaskLink(project.ID, ""),
		AddResourceLink:  addResourceLink(project.ID, ""),
	}

	if identity != nil && identity.UID == project.CreatedBy {
		params.IsOwner = true
	}

	creator, err := u.users.FetchUserByID(ctx, project.CreatedBy)
	if err != nil {
		glog.Errorf("Error while resolving creator %s: %v", project.CreatedBy, err)
	} else if creator != nil {
		params.CreatorName = creator.DisplayName
		params.CreatorLink = showUserLink(creator.UID)
	}

	if project.Location != nil {
		params.Location = strings.TrimSpace(strings.Join([]string{project.Location.City, project.Location.Country}, " "))
		params.LocationType = project.Location.Type
	}

	if project.Progress != nil {
		params.ProgressOverall = project.Progress.Overall
		params.TasksCompleted = project.Progress.TasksCompleted
		params.TotalTasks = project.Progress.TotalTasks
	}

	for _, m := range project.Milestones {
		params.Milestones = append(params.Milestones, &uitemplates.ShowProjectMilestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			DueOn:       m.DueDate.Format("2006-01-02"),
			Status:      m.Status,
			Progress:    m.Progress,
		})
	}

	for _, m := range project.Roadmap {
		entry := &uitemplates.ShowProjectMilestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Status:      m.Status,
			Progress:    m.Progress,
		}
		// Roadmap steps from the creation wizard have no date.
		if !m.DueDate.IsZero() {
			entry.DueOn = m.DueDate.Format("2006-01-02")
		}
		params.Roadmap = append(params.Roadmap, entry)
	}

	for _, t := range project.Tasks {
		task := &uitemplates.ShowProjectTask{
			ID:         t.ID,
			Title:      t.Title,
			Status:     t.Status,
			Priority:   t.Priority,
			AssignedTo: t.AssignedTo,
		}
		if !t.DueDate.IsZero() {
			task.DueOn = t.DueDate.Format("2006-01-02")
		}
		params.Tasks = append(params.Tasks, task)
	}

	for _, res := range project.Resources {
		row := &uitemplates.ShowProjectResource{
			ID:          res.ID,
			Type:        res.Type,
			Name:        res.Name,
			Description: res.Description,
			Status:      res.Status,
		}
		if res.Type == dbtypes.ResourceTypeFunding && res.Amount > 0 {
			row.Amount = fmt.Sprintf("%.2f", res.Amount)
		}
		params.Resources = append(params.Resources, row)
	}

	if project.PeopleNeeded != nil {
		params.PeopleCount = project.PeopleNeeded.Count
		for _, role := range project.PeopleNeeded.NormalizedRoles() {
			params.Roles = append(params.Roles, &uitemplates.ShowProjectRole{
				Name:             role.Name,
				Responsibilities: role.Responsibilities,
				Skills:           strings.Join(role.Skills, ", "),
			})
		}
	}

	return params
}

// myProjectsHandler renders the signed-in user's live project list out of the
// session's project store.
func (u *WebUI) myProjectsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/my-projects" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/my-projects"), http.StatusFound)
		return
	}

	state := u.sessionStateFor(cookie, identity)

	params := &uitemplates.MyProjectsParams{
		ActiveUser: activeUser(identity),
		Loading:    state.projects.Loading(),
	}
	if storeErr := state.projects.Err(); storeErr != nil {
		params.LoadError = "Some project data may be stale; the last operation failed."
		glog.Errorf("Project store error for %s: %v", identity.UID, storeErr)
	}
	for _, p := range state.projects.Projects() {
		params.Projects = append(params.Projects, u.projectCard(ctx, p))
	}

	content := bytes.Buffer{}
	if err := uitemplates.MyProjectsTemplate.Execute(&content, params); err != nil {
		glog.Errorf("Error while executing template: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(w, &content); err != nil {
		// It's too late to write an error to the HTTP response.
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

// ownedProject loads a project and checks that identity owns it.  Returns
// (nil, nil) when the project is missing or owned by someone else; the
// handler should 404 either way, without revealing which.
func (u *WebUI) ownedProject(ctx context.Context, projectID string, identity *auth.Identity) (*dbtypes.Project, error) {
	project, err := u.db.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	if identity == nil || project.CreatedBy != identity.UID {
		return nil, nil
	}
	return project, nil
}

func (u *WebUI) editProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/edit-project" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.editProjectGetHandler(w, r)
		return
	case http.MethodPost:
		u.editProjectPostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because editProjectHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

func (u *WebUI) editProjectGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink(r.URL.String()), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("id")

	project, err := u.ownedProject(ctx, projectID, identity)
	if err != nil {
		glog.Errorf("Error while loading project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	params := &uitemplates.EditProjectParams{
		ActiveUser:   activeUser(identity),
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Category:     project.Category,
		Status:       project.Status,
		Technologies: strings.Join(project.Technologies, ", "),
		SelfLink:     editProjectLink(project.ID, ""),
		UserError:    r.Form.Get("user-error"),
	}

	content := bytes.Buffer{}
	if err := uitemplates.EditProjectTemplate.Execute(&content, params); err != nil {
		glog.Errorf("Error while executing template: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(w, &content); err != nil {
		// It's too late to write an error to the HTTP response.
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

func (u *WebUI) editProjectPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/my-projects"), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("id")

	project, err := u.ownedProject(ctx, projectID, identity)
	if err != nil {
		glog.Errorf("Error while loading project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	userErr, err := u.doEditProject(ctx, cookie, identity, projectID, r.PostForm)
	if err != nil {
		glog.Errorf("Error while editing project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if userErr != "" {
		http.Redirect(w, r, editProjectLink(projectID, userErr), http.StatusFound)
		return
	}

	http.Redirect(w, r, showProjectLink(projectID), http.StatusFound)
}

func (u *WebUI) doEditProject(ctx context.Context, cookie string, identity *auth.Identity, projectID string, form url.Values) (string, error) {
	title := strings.TrimSpace(form.Get("title"))
	description := strings.TrimSpace(form.Get("description"))
	category := strings.TrimSpace(form.Get("category"))
	status := form.Get("status")

	if title == "" || description == "" || category == "" {
		return "Title, description, and category must not be empty", nil
	}
	switch status {
	case dbtypes.ProjectStatusActive, dbtypes.ProjectStatusCompleted, dbtypes.ProjectStatusArchived:
	default:
		return fmt.Sprintf("Unknown status %q", status), nil
	}

	update := &dbtypes.ProjectUpdate{
		Title:       &title,
		Description: &description,
		Category:    &category,
		Status:      &status,
	}
	if form.Has("technologies") {
		technologies := parseStringList(form.Get("technologies"))
		update.Technologies = &technologies
	}

	state := u.sessionStateFor(cookie, identity)
	if err := state.projects.UpdateProject(ctx, projectID, update); err != nil {
		return "", err
	}

	return "", nil
}

func (u *WebUI) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/delete-project" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because deleteProjectHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/my-projects"), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("id")

	project, err := u.ownedProject(ctx, projectID, identity)
	if err != nil {
		glog.Errorf("Error while loading project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	state := u.sessionStateFor(cookie, identity)
	if err := state.projects.DeleteProject(ctx, projectID); err != nil {
		glog.Errorf("Error while deleting project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/my-projects", http.StatusFound)
}

func (u *WebUI) updateProgressHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/update-progress" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because updateProgressHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		overall, err := strconv.ParseInt(form.Get("overall"), 10, 64)
		if err != nil || overall < 0 || overall > 100 {
			return fmt.Sprintf("Progress must be a number from 0 to 100, not %q", form.Get("overall")), nil
		}

		if err := state.projects.UpdateProgress(ctx, projectID, &dbtypes.ProgressUpdate{Overall: &overall}); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) addMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/add-milestone" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.addItemFormHandler(w, r, "milestone")
		return
	case http.MethodPost:
		u.addMilestonePostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because addMilestoneHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

func (u *WebUI) addTaskHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/add-task" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.addItemFormHandler(w, r, "task")
		return
	case http.MethodPost:
		u.addTaskPostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because addTaskHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

// addItemFormHandler renders the add-milestone, add-task, or add-resource
// form.  The three forms share a parameter shape.
func (u *WebUI) addItemFormHandler(w http.ResponseWriter, r *http.Request, kind string) {
	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink(r.URL.String()), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("id")

	project, err := u.ownedProject(ctx, projectID, identity)
	if err != nil {
		glog.Errorf("Error while loading project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	params := &uitemplates.AddItemParams{
		ActiveUser:   activeUser(identity),
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		ProjectLink:  showProjectLink(project.ID),
		UserError:    r.Form.Get("user-error"),
	}

	tmpl := uitemplates.AddMilestoneTemplate
	params.SelfLink = addMilestoneLink(project.ID, "")
	switch kind {
	case "task":
		tmpl = uitemplates.AddTaskTemplate
		params.SelfLink = addTaskLink(project.ID, "")
	case "resource":
		tmpl = uitemplates.AddResourceTemplate
		params.SelfLink = addResourceLink(project.ID, "")
	}

	content := bytes.Buffer{}
	if err := tmpl.Execute(&content, params); err != nil {
		glog.Errorf("Error while executing template: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(w, &content); err != nil {
		// It's too late to write an error to the HTTP response.
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

func (u *WebUI) addMilestonePostHandler(w http.ResponseWriter, r *http.Request) {
	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		title := strings.TrimSpace(form.Get("title"))
		if title == "" {
			return "Milestone title must not be empty", nil
		}

		dueDate, err := time.Parse("2006-01-02", form.Get("due-date"))
		if err != nil {
			return fmt.Sprintf("Could not parse date %q", form.Get("due-date")), nil
		}

		milestone := &dbtypes.Milestone{
			Title:       title,
			Description: strings.TrimSpace(form.Get("description")),
			DueDate:     dueDate,
			Status:      dbtypes.MilestoneStatusPending,
		}
		if _, err := state.projects.AddMilestone(ctx, projectID, milestone); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) updateMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/update-milestone" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because updateMilestoneHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		milestoneID := form.Get("milestone-id")

		update := &dbtypes.MilestoneUpdate{}
		if status := form.Get("status"); status != "" {
			switch status {
			case dbtypes.MilestoneStatusPending, dbtypes.MilestoneStatusInProgress, dbtypes.MilestoneStatusCompleted:
				update.Status = &status
			default:
				return fmt.Sprintf("Unknown milestone status %q", status), nil
			}
		}
		if raw := form.Get("progress"); raw != "" {
			progress, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || progress < 0 || progress > 100 {
				return fmt.Sprintf("Progress must be a number from 0 to 100, not %q", raw), nil
			}
			update.Progress = &progress
		}

		if err := state.projects.UpdateMilestone(ctx, projectID, milestoneID, update); err != nil {
			if errors.Is(err, dblayer.ErrMilestoneNotFound) {
				return "No milestone with that id", nil
			}
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) addTaskPostHandler(w http.ResponseWriter, r *http.Request) {
	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		title := strings.TrimSpace(form.Get("title"))
		if title == "" {
			return "Task title must not be empty", nil
		}

		task := &dbtypes.Task{
			Title:       title,
			Description: strings.TrimSpace(form.Get("description")),
			Status:      dbtypes.TaskStatusTodo,
			AssignedTo:  strings.TrimSpace(form.Get("assigned-to")),
			Priority:    form.Get("priority"),
		}
		if raw := form.Get("due-date"); raw != "" {
			dueDate, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return fmt.Sprintf("Could not parse date %q", raw), nil
			}
			task.DueDate = dueDate
		}

		if _, err := state.projects.AddTask(ctx, projectID, task); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/update-task" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because updateTaskHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		taskID := form.Get("task-id")

		update := &dbtypes.TaskUpdate{}
		if status := form.Get("status"); status != "" {
			switch status {
			case dbtypes.TaskStatusTodo, dbtypes.TaskStatusInProgress, dbtypes.TaskStatusDone:
				update.Status = &status
			default:
				return fmt.Sprintf("Unknown task status %q", status), nil
			}
		}
		if form.Has("assigned-to") {
			assignedTo := strings.TrimSpace(form.Get("assigned-to"))
			update.AssignedTo = &assignedTo
		}

		if err := state.projects.UpdateTask(ctx, projectID, taskID, update); err != nil {
			if errors.Is(err, dblayer.ErrTaskNotFound) {
				return "No task with that id", nil
			}
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) addResourceHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/add-resource" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.addItemFormHandler(w, r, "resource")
		return
	case http.MethodPost:
		u.addResourcePostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because addResourceHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

func (u *WebUI) addResourcePostHandler(w http.ResponseWriter, r *http.Request) {
	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		name := strings.TrimSpace(form.Get("name"))
		if name == "" {
			return "Resource name must not be empty", nil
		}

		resourceType := form.Get("type")
		switch resourceType {
		case dbtypes.ResourceTypeFunding, dbtypes.ResourceTypeTools, dbtypes.ResourceTypeEquipment, dbtypes.ResourceTypeOther:
		default:
			return fmt.Sprintf("Unknown resource type %q", resourceType), nil
		}

		resourceStatus := form.Get("status")
		switch resourceStatus {
		case dbtypes.ResourceStatusAvailable, dbtypes.ResourceStatusNeeded, dbtypes.ResourceStatusSecured:
		default:
			return fmt.Sprintf("Unknown resource status %q", resourceStatus), nil
		}

		resource := &dbtypes.Resource{
			Type:        resourceType,
			Name:        name,
			Description: strings.TrimSpace(form.Get("description")),
			Status:      resourceStatus,
		}
		if raw := form.Get("amount"); raw != "" {
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil || amount < 0 {
				return fmt.Sprintf("Amount must be a non-negative number, not %q", raw), nil
			}
			resource.Amount = amount
		}

		if _, err := state.projects.AddResource(ctx, projectID, resource); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) updateResourceHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/update-resource" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because updateResourceHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		resourceID := form.Get("resource-id")

		update := &dbtypes.ResourceUpdate{}
		if status := form.Get("status"); status != "" {
			switch status {
			case dbtypes.ResourceStatusAvailable, dbtypes.ResourceStatusNeeded, dbtypes.ResourceStatusSecured:
				update.Status = &status
			default:
				return fmt.Sprintf("Unknown resource status %q", status), nil
			}
		}
		if raw := form.Get("amount"); raw != "" {
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil || amount < 0 {
				return fmt.Sprintf("Amount must be a non-negative number, not %q", raw), nil
			}
			update.Amount = &amount
		}

		if err := state.projects.UpdateResource(ctx, projectID, resourceID, update); err != nil {
			if errors.Is(err, dblayer.ErrResourceNotFound) {
				return "No resource with that id", nil
			}
			return "", err
		}
		return "", nil
	})
}

func (u *WebUI) deleteResourceHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/delete-resource" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because deleteResourceHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	u.runProjectMutation(w, r, func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error) {
		if err := state.projects.DeleteResource(ctx, projectID, form.Get("resource-id")); err != nil {
			return "", err
		}
		return "", nil
	})
}

// runProjectMutation factors the shared plumbing of the small POST-only
// mutation endpoints: sign-in check, form parse, ownership check, do
// function, redirect back to the project page.
func (u *WebUI) runProjectMutation(w http.ResponseWriter, r *http.Request, do func(ctx context.Context, state *sessionState, projectID string, form url.Values) (string, error)) {
	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/my-projects"), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("id")

	project, err := u.ownedProject(ctx, projectID, identity)
	if err != nil {
		glog.Errorf("Error while loading project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	state := u.sessionStateFor(cookie, identity)

	userErr, err := do(ctx, state, projectID, r.PostForm)
	if err != nil {
		glog.Errorf("Error while mutating project %s: %v", projectID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if userErr != "" {
		q := url.Values{}
		q.Add("id", projectID)
		q.Add("user-error", userErr)
		link := &url.URL{Path: "/show-project", RawQuery: q.Encode()}
		http.Redirect(w, r, link.String(), http.StatusFound)
		return
	}

	http.Redirect(w, r, showProjectLink(projectID), http.StatusFound)
}
