package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bezaspace/dbtypes"
	"bezaspace/webui/uitemplates"

	"github.com/golang/glog"
)

func showUserLink(uid string) string {
	q := url.Values{}
	q.Add("uid", uid)
	link := &url.URL{
		Path:     "/show-user",
		RawQuery: q.Encode(),
	}
	return link.String()
}

func editProfileLink(userError string) string {
	q := url.Values{}
	if userError != "" {
		q.Add("user-error", userError)
	}
	link := &url.URL{
		Path:     "/edit-profile",
		RawQuery: q.Encode(),
	}
	return link.String()
}

// searchUsersHandler renders the user search page.  The page's input box
// talks to apiSearchUsersHandler as the user types.
func (u *WebUI) searchUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/search-users" {
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

	params := &uitemplates.SearchUsersParams{
		ActiveUser: activeUser(identity),
	}

	content := bytes.Buffer{}
	if err := uitemplates.SearchUsersTemplate.Execute(&content, params); err != nil {
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

// apiSearchUsersResponse is the JSON shape returned to the autocomplete
// input.
type apiSearchUsersResponse struct {
	Query     string                      `json:"query"`
	Searching bool                        `json:"searching"`
	Results   []*dbtypes.UserSearchResult `json:"results"`
	Error     string                      `json:"error,omitempty"`
}

// apiSearchUsersHandler feeds a keystroke into the session's debounced user
// search and returns the current snapshot.  Repeated polling converges on
// the debounced result.
func (u *WebUI) apiSearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/search-users" {
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
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	state := u.sessionStateFor(cookie, identity)

	// The debounce runs on the session's own context, not the request's;
	// the scheduled search outlives this poll.
	if r.Form.Has("q") {
		state.userSearch.SetQuery(context.Background(), r.Form.Get("q"))
	}

	resp := &apiSearchUsersResponse{
		Query:     state.userSearch.Query(),
		Searching: state.userSearch.Searching(),
		Results:   state.userSearch.Results(),
	}
	if searchErr := state.userSearch.Err(); searchErr != nil {
		resp.Error = "search failed"
		glog.Errorf("User search error for %s: %v", identity.UID, searchErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

// apiSearchProjectsResponse is the JSON shape returned to the browse page's
// live filter panel.
type apiSearchProjectsResponse struct {
	Searching bool                             `json:"searching"`
	Results   []*uitemplates.ProjectCardParams `json:"results"`
	Error     string                           `json:"error,omitempty"`
}

// apiSearchProjectsHandler feeds a filter change into the session's debounced
// project search and returns the current snapshot.
func (u *WebUI) apiSearchProjectsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/search-projects" {
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
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	state := u.sessionStateFor(cookie, identity)

	if r.Form.Has("set") {
		state.projectSearch.SetFilters(context.Background(), parseFilters(r.Form))
	}

	resp := &apiSearchProjectsResponse{
		Searching: state.projectSearch.Searching(),
	}
	for _, p := range state.projectSearch.Results() {
		resp.Results = append(resp.Results, u.projectCard(ctx, p))
	}
	if searchErr := state.projectSearch.Err(); searchErr != nil {
		resp.Error = "search failed"
		glog.Errorf("Project search error for %s: %v", identity.UID, searchErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		glog.Errorf("Error while writing output: %v", err)
		return
	}
}

// showUserHandler renders a user's public profile along with their projects.
func (u *WebUI) showUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/show-user" {
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

	uid := r.Form.Get("uid")

	profile, err := u.db.GetUserProfile(ctx, uid)
	if err != nil {
		glog.Errorf("Error while loading profile %s: %v", uid, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	projects, err := u.db.GetUserProjects(ctx, uid)
	if err != nil {
		glog.Errorf("Error while loading projects of %s: %v", uid, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	params := &uitemplates.ShowUserParams{
		ActiveUser:  activeUser(identity),
		DisplayName: profile.DisplayName,
		Username:    profile.Username,
		Bio:         profile.Bio,
		PhotoURL:    profile.PhotoURL,
		JoinedOn:    profile.CreatedAt.Format("2006-01-02"),
	}
	if identity != nil && identity.UID == uid {
		params.IsSelf = true
		params.EditProfileLink = editProfileLink("")
	}
	for _, p := range projects {
		params.Projects = append(params.Projects, u.projectCard(ctx, p))
	}

	content := bytes.Buffer{}
	if err := uitemplates.ShowUserTemplate.Execute(&content, params); err != nil {
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

func (u *WebUI) editProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/edit-profile" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.editProfileGetHandler(w, r)
		return
	case http.MethodPost:
		u.editProfilePostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because editProfileHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

func (u *WebUI) editProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/edit-profile"), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	profile, err := u.db.GetUserProfile(ctx, identity.UID)
	if err != nil {
		glog.Errorf("Error while loading profile %s: %v", identity.UID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		// The sign-in flow upserts the profile, so this should not happen.
		glog.Errorf("Signed-in user %s has no profile", identity.UID)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	params := &uitemplates.EditProfileParams{
		ActiveUser:  activeUser(identity),
		DisplayName: profile.DisplayName,
		Username:    profile.Username,
		Bio:         profile.Bio,
		PhotoURL:    profile.PhotoURL,
		SelfLink:    editProfileLink(""),
		UserError:   r.Form.Get("user-error"),
	}

	content := bytes.Buffer{}
	if err := uitemplates.EditProfileTemplate.Execute(&content, params); err != nil {
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

func (u *WebUI) editProfilePostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		http.Redirect(w, r, logInLink("/edit-profile"), http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	userErr, err := u.doEditProfile(ctx, identity.UID, r.PostForm)
	if err != nil {
		glog.Errorf("Error while editing profile %s: %v", identity.UID, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if userErr != "" {
		http.Redirect(w, r, editProfileLink(userErr), http.StatusFound)
		return
	}

	// The cache may hold the old projection.
	u.users.Clear()

	http.Redirect(w, r, showUserLink(identity.UID), http.StatusFound)
}

func (u *WebUI) doEditProfile(ctx context.Context, uid string, form url.Values) (string, error) {
	displayName := strings.TrimSpace(form.Get("display-name"))
	if displayName == "" {
		return "Display name must not be empty", nil
	}

	username := strings.TrimSpace(form.Get("username"))
	if strings.ContainsAny(username, " \t") {
		return "Username must not contain spaces", nil
	}

	bio := strings.TrimSpace(form.Get("bio"))

	update := &dbtypes.ProfileUpdate{
		DisplayName: &displayName,
		Bio:         &bio,
		Username:    &username,
	}
	if err := u.db.UpdateUserProfile(ctx, uid, update); err != nil {
		return "", err
	}

	return "", nil
}
