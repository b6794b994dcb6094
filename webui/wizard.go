package webui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bezaspace/dbtypes"
	"bezaspace/imagestore"
	"bezaspace/webui/uitemplates"

	"github.com/golang/glog"
)

// Wizard steps, in order.
const (
	wizardStepBasics       = 1
	wizardStepGoals        = 2
	wizardStepOutcomes     = 3
	wizardStepRoadmap      = 4
	wizardStepTechnologies = 5
	wizardStepTeam         = 6
)

// maxUploadBytes bounds the final wizard POST, which carries the project
// images.
const maxUploadBytes = 32 << 20

// projectDraft is the server-side accumulation of the creation wizard.  One
// draft per session; released on create, cancel, or log-out.
type projectDraft struct {
	Step int
	Data dbtypes.ProjectFormData
}

func newProjectDraft() *projectDraft {
	return &projectDraft{Step: wizardStepBasics}
}

func createProjectLink(userError string) string {
	q := url.Values{}
	if userError != "" {
		q.Add("user-error", userError)
	}
	link := &url.URL{
		Path:     "/create-project",
		RawQuery: q.Encode(),
	}
	return link.String()
}

// applyWizardStep folds one submitted step into the draft.  Returns a user
// error without touching the draft's position when validation fails.
func applyWizardStep(draft *projectDraft, step int, form url.Values) string {
	switch step {
	case wizardStepBasics:
		title := strings.TrimSpace(form.Get("title"))
		description := strings.TrimSpace(form.Get("description"))
		category := strings.TrimSpace(form.Get("category"))
		if title == "" || description == "" || category == "" {
			return "Title, description, and category must not be empty"
		}
		draft.Data.Title = title
		draft.Data.Description = description
		draft.Data.Category = category

		locationType := form.Get("location-type")
		switch locationType {
		case "":
			draft.Data.Location = nil
		case dbtypes.LocationTypeRemote, dbtypes.LocationTypeOnsite, dbtypes.LocationTypeHybrid:
			draft.Data.Location = &dbtypes.Location{
				Type:    locationType,
				City:    strings.TrimSpace(form.Get("city")),
				Country: strings.TrimSpace(form.Get("country")),
			}
		default:
			return fmt.Sprintf("Unknown location type %q", locationType)
		}

	case wizardStepGoals:
		draft.Data.Goals = parseLines(form.Get("goals"))

	case wizardStepOutcomes:
		draft.Data.Outcomes = parseLines(form.Get("outcomes"))

	case wizardStepRoadmap:
		draft.Data.Roadmap = parseRoadmap(form.Get("roadmap"))

	case wizardStepTechnologies:
		draft.Data.Technologies = parseStringList(form.Get("technologies"))

	case wizardStepTeam:
		roleNames := parseLines(form.Get("roles"))
		skills := parseStringList(form.Get("skills"))
		count := int64(0)
		if raw := form.Get("people-count"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 {
				return fmt.Sprintf("People count must be a non-negative number, not %q", raw)
			}
			count = parsed
		}
		if len(roleNames) == 0 && len(skills) == 0 && count == 0 {
			draft.Data.PeopleNeeded = nil
			break
		}
		block := &dbtypes.PeopleNeeded{
			Count:  count,
			Skills: skills,
		}
		for _, name := range roleNames {
			block.Roles = append(block.Roles, dbtypes.TeamRole{Name: name})
		}
		draft.Data.PeopleNeeded = block

	default:
		return fmt.Sprintf("Unknown wizard step %d", step)
	}

	if step == draft.Step && draft.Step < wizardStepTeam {
		draft.Step++
	}
	return ""
}

// parseRoadmap turns textarea lines into chronological roadmap steps.  Each
// line is a step title, optionally followed by "|" and a description.
func parseRoadmap(raw string) []*dbtypes.Milestone {
	var out []*dbtypes.Milestone
	for _, line := range strings.Split(raw, "\n") {
		title, description, _ := strings.Cut(line, "|")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		out = append(out, &dbtypes.Milestone{
			Title:       title,
			Description: strings.TrimSpace(description),
		})
	}
	return out
}

// parseLines splits a textarea value into trimmed non-empty lines.
func parseLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (u *WebUI) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/create-project" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.createProjectGetHandler(w, r)
		return
	case http.MethodPost:
		u.createProjectPostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because createProjectHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

func wizardParams(draft *projectDraft, userError string) *uitemplates.CreateProjectParams {
	params := &uitemplates.CreateProjectParams{
		Step:      draft.Step,
		UserError: userError,

		Title:        draft.Data.Title,
		Description:  draft.Data.Description,
		Category:     draft.Data.Category,
		Goals:        strings.Join(draft.Data.Goals, "\n"),
		Outcomes:     strings.Join(draft.Data.Outcomes, "\n"),
		Roadmap:      roadmapLines(draft.Data.Roadmap),
		Technologies: strings.Join(draft.Data.Technologies, ", "),
	}
	if draft.Data.Location != nil {
		params.LocationType = draft.Data.Location.Type
		params.City = draft.Data.Location.City
		params.Country = draft.Data.Location.Country
	}
	if draft.Data.PeopleNeeded != nil {
		params.PeopleCount = draft.Data.PeopleNeeded.Count
		params.Skills = strings.Join(draft.Data.PeopleNeeded.Skills, ", ")
		var names []string
		for _, role := range draft.Data.PeopleNeeded.NormalizedRoles() {
			names = append(names, role.Name)
		}
		params.Roles = strings.Join(names, "\n")
	}
	return params
}

// roadmapLines is the inverse of parseRoadmap, for refilling the textarea.
func roadmapLines(roadmap []*dbtypes.Milestone) string {
	var lines []string
	for _, step := range roadmap {
		line := step.Title
		if step.Description != "" {
			line += " | " + step.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (u *WebUI) createProjectGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/create-project"), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	state := u.sessionStateFor(cookie, identity)

	state.draftMu.Lock()
	if state.draft == nil {
		state.draft = newProjectDraft()
	}
	params := wizardParams(state.draft, r.Form.Get("user-error"))
	state.draftMu.Unlock()

	params.ActiveUser = activeUser(identity)

	content := bytes.Buffer{}
	if err := uitemplates.CreateProjectTemplate.Execute(&content, params); err != nil {
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

func (u *WebUI) createProjectPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/create-project"), http.StatusFound)
		return
	}

	// The final step carries file uploads; earlier steps are plain forms.
	// ParseMultipartForm falls through to ParseForm behavior for both.
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	state := u.sessionStateFor(cookie, identity)

	action := r.Form.Get("action")

	if action == "cancel" {
		state.draftMu.Lock()
		state.draft = nil
		state.draftMu.Unlock()
		http.Redirect(w, r, "/my-projects", http.StatusFound)
		return
	}

	step, err := strconv.Atoi(r.Form.Get("step"))
	if err != nil {
		glog.Errorf("Returning Bad Request because wizard step %q is not a number", r.Form.Get("step"))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	state.draftMu.Lock()
	if state.draft == nil {
		state.draft = newProjectDraft()
	}
	draft := state.draft

	if action == "back" {
		if draft.Step > wizardStepBasics {
			draft.Step--
		}
		state.draftMu.Unlock()
		http.Redirect(w, r, createProjectLink(""), http.StatusFound)
		return
	}

	if userErr := applyWizardStep(draft, step, r.Form); userErr != "" {
		state.draftMu.Unlock()
		http.Redirect(w, r, createProjectLink(userErr), http.StatusFound)
		return
	}

	if action != "create" {
		state.draftMu.Unlock()
		http.Redirect(w, r, createProjectLink(""), http.StatusFound)
		return
	}

	// Commit.  Copy the form data out and release the lock before the
	// uploads and the backend create.
	formData := draft.Data
	state.draftMu.Unlock()

	imageURLs, userErr, err := u.uploadWizardImages(ctx, identity.UID, r)
	if err != nil {
		glog.Errorf("Error while uploading project images: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if userErr != "" {
		http.Redirect(w, r, createProjectLink(userErr), http.StatusFound)
		return
	}

	projectID, err := state.projects.CreateProject(ctx, &formData, imageURLs)
	if err != nil {
		glog.Errorf("Error while creating project: %v", err)
		http.Redirect(w, r, createProjectLink("Could not create the project; try again"), http.StatusFound)
		return
	}

	state.draftMu.Lock()
	state.draft = nil
	state.draftMu.Unlock()

	http.Redirect(w, r, showProjectLink(projectID), http.StatusFound)
}

// uploadWizardImages validates and uploads the images attached to the final
// wizard step.  Policy violations come back as a user error.
func (u *WebUI) uploadWizardImages(ctx context.Context, ownerID string, r *http.Request) ([]string, string, error) {
	if r.MultipartForm == nil {
		return nil, "", nil
	}

	var images []imagestore.Image
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, header := range r.MultipartForm.File["images"] {
		f, err := header.Open()
		if err != nil {
			return nil, "", fmt.Errorf("while opening uploaded file %q: %w", header.Filename, err)
		}
		closers = append(closers, f)
		images = append(images, imagestore.Image{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        f,
		})
	}

	if len(images) == 0 {
		return nil, "", nil
	}

	if err := imagestore.ValidateImages(images); err != nil {
		return nil, err.Error(), nil
	}

	urls, err := u.images.UploadProjectImages(ctx, ownerID, images)
	if err != nil {
		return nil, "", err
	}

	return urls, "", nil
}
