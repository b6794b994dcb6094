// Package webui serves the BezaSpace HTML interface: browsing and searching
// projects, the signed-in user's live project list, the multi-step project
// creation wizard, and profile pages.
package webui

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"bezaspace/auth"
	"bezaspace/dblayer"
	"bezaspace/dbtypes"
	"bezaspace/imagestore"
	"bezaspace/projectstore"
	"bezaspace/searchstore"
	"bezaspace/usercache"
	"bezaspace/webui/uitemplates"

	"github.com/golang/glog"
)

const sessionCookieName = "BezaSpace-Session"

// userSearchLimit caps the autocomplete result list.
const userSearchLimit = 10

type WebUI struct {
	db                  *dblayer.DB
	images              *imagestore.Store
	users               *usercache.Cache
	googleOAuthClientID string

	// Per-session view state, keyed by session cookie.  Entries are created
	// on first authenticated use and dropped on log-out, when a request
	// arrives with an expired cookie, or by the stale-state sweep.
	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is the server-side view state of one browser session: the
// live project list, the two debounced search boxes, and the in-progress
// creation wizard draft.
type sessionState struct {
	cancel     context.CancelFunc
	identityCh chan *auth.Identity

	// Guarded by WebUI.mu.  Bumped on every authenticated request that
	// touches the state; the sweep uses it to find abandoned sessions.
	lastUsed time.Time

	projects      *projectstore.Store
	userSearch    *searchstore.Store
	projectSearch *searchstore.ProjectStore

	draftMu sync.Mutex
	draft   *projectDraft
}

func New(db *dblayer.DB, images *imagestore.Store, googleOAuthClientID string) *WebUI {
	u := &WebUI{
		db:                  db,
		images:              images,
		googleOAuthClientID: googleOAuthClientID,
		sessions:            map[string]*sessionState{},
	}
	u.users = usercache.New(func(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error) {
		profile, err := db.GetUserProfile(ctx, uid)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, nil
		}
		return profile.SearchResult(), nil
	})
	return u
}

func (u *WebUI) Register(m *http.ServeMux) {
	m.HandleFunc("/", u.homeHandler)
	m.HandleFunc("/log-in", u.logInHandler)
	m.HandleFunc("/log-out", u.logOutHandler)
	m.HandleFunc("/sign-in-with-google", u.signInWithGoogleHandler)

	m.HandleFunc("/browse-projects", u.browseProjectsHandler)
	m.HandleFunc("/show-project", u.showProjectHandler)
	m.HandleFunc("/my-projects", u.myProjectsHandler)
	m.HandleFunc("/create-project", u.createProjectHandler)
	m.HandleFunc("/edit-project", u.editProjectHandler)
	m.HandleFunc("/delete-project", u.deleteProjectHandler)
	m.HandleFunc("/update-progress", u.updateProgressHandler)
	m.HandleFunc("/add-milestone", u.addMilestoneHandler)
	m.HandleFunc("/update-milestone", u.updateMilestoneHandler)
	m.HandleFunc("/add-task", u.addTaskHandler)
	m.HandleFunc("/update-task", u.updateTaskHandler)
	m.HandleFunc("/add-resource", u.addResourceHandler)
	m.HandleFunc("/update-resource", u.updateResourceHandler)
	m.HandleFunc("/delete-resource", u.deleteResourceHandler)

	m.HandleFunc("/search-users", u.searchUsersHandler)
	m.HandleFunc("/api/search-users", u.apiSearchUsersHandler)
	m.HandleFunc("/api/search-projects", u.apiSearchProjectsHandler)
	m.HandleFunc("/show-user", u.showUserHandler)
	m.HandleFunc("/edit-profile", u.editProfileHandler)
}

// getSignedInUser loads the identity associated with the session cookie in
// the request, if there is one.
func (u *WebUI) getSignedInUser(ctx context.Context, r *http.Request) (string, *auth.Identity, error) {
	var sessionCookie *http.Cookie
	for _, cookie := range r.Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil {
		// No session cookie; user is not signed in.
		return "", nil, nil
	}

	identity, err := u.db.IdentityFromSessionCookie(ctx, sessionCookie.Value)
	if err != nil {
		return "", nil, err
	}

	u.reapIfSignedOut(sessionCookie.Value, identity)

	return sessionCookie.Value, identity, nil
}

// reapIfSignedOut releases any view state held for a cookie whose session no
// longer resolves to an identity.  The cookie outlived its session, so the
// state (and the project store's live subscription behind it) would
// otherwise leak until process exit.
func (u *WebUI) reapIfSignedOut(cookie string, identity *auth.Identity) {
	if identity != nil {
		return
	}
	u.dropSessionState(cookie)
}

// sessionStateFor returns the view state for a session, creating it on first
// use.  Creation starts the session's project store on a stream primed with
// the current identity.
func (u *WebUI) sessionStateFor(cookie string, identity *auth.Identity) *sessionState {
	u.mu.Lock()
	defer u.mu.Unlock()

	if state, ok := u.sessions[cookie]; ok {
		state.lastUsed = time.Now()
		return state
	}

	ctx, cancel := context.WithCancel(context.Background())
	state := &sessionState{
		cancel:     cancel,
		identityCh: make(chan *auth.Identity, 1),
		lastUsed:   time.Now(),
		projects:   projectstore.New(u.db),
		userSearch: searchstore.New(func(ctx context.Context, query string) ([]*dbtypes.UserSearchResult, error) {
			return u.db.SearchUsers(ctx, query, userSearchLimit)
		}),
		projectSearch: searchstore.NewProjectStore(u.db.SearchProjects),
	}

	go state.projects.Run(ctx, state.identityCh)
	state.identityCh <- identity

	u.sessions[cookie] = state
	return state
}

// dropSessionState tears down the view state of a session, if any exists.
func (u *WebUI) dropSessionState(cookie string) {
	u.mu.Lock()
	state, ok := u.sessions[cookie]
	delete(u.sessions, cookie)
	u.mu.Unlock()

	if !ok {
		return
	}

	// Closing the stream stops the project store and unsubscribes; cancel
	// covers the subscription context.
	close(state.identityCh)
	state.cancel()
}

// ReapStaleSessionStates periodically drops view state that has not been
// touched for a full session lifetime.  It covers sessions that expire
// without the browser ever coming back; a returning browser is handled on
// the request path instead.  Blocks until ctx is done.
func (u *WebUI) ReapStaleSessionStates(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := u.reapStaleSessionStates(time.Now()); n > 0 {
				glog.Infof("Reaped %d stale session states", n)
			}
		}
	}
}

// reapStaleSessionStates drops every state idle for at least the session
// lifetime and reports how many were dropped.  A state is only ever touched
// while its session is valid, so lastUsed is at or after the session's
// creation; idle time reaching the lifetime means the session has expired.
func (u *WebUI) reapStaleSessionStates(now time.Time) int {
	u.mu.Lock()
	var stale []string
	for cookie, state := range u.sessions {
		if now.Sub(state.lastUsed) >= dblayer.SessionLifetime {
			stale = append(stale, cookie)
		}
	}
	u.mu.Unlock()

	for _, cookie := range stale {
		u.dropSessionState(cookie)
	}
	return len(stale)
}

func activeUser(identity *auth.Identity) uitemplates.ActiveUserParams {
	if identity == nil {
		return uitemplates.ActiveUserParams{}
	}
	return uitemplates.ActiveUserParams{
		SignedIn:    true,
		UID:         identity.UID,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
	}
}

// homeHandler renders the home page.
func (u *WebUI) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	_, identity, err := u.getSignedInUser(r.Context(), r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	params := &uitemplates.HomeParams{
		ActiveUser: activeUser(identity),
	}

	content := bytes.Buffer{}
	if err := uitemplates.HomeTemplate.Execute(&content, params); err != nil {
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

func logInLink(redirectTarget string) string {
	q := url.Values{}
	if redirectTarget != "" {
		q.Add("redirect-target", redirectTarget)
	}
	link := &url.URL{
		Path:     "/log-in",
		RawQuery: q.Encode(),
	}
	return link.String()
}

// logInHandler renders the login page, which hosts the "Sign in with Google"
// button.
func (u *WebUI) logInHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/log-in" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet {
		glog.Errorf("Returning Bad Request because logInHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
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

	if identity != nil {
		// User is already signed in.
		if target := r.Form.Get("redirect-target"); target != "" {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	params := &uitemplates.LogInParams{
		UserError:           r.Form.Get("user-error"),
		GoogleOAuthClientID: u.googleOAuthClientID,
		RedirectTarget:      r.Form.Get("redirect-target"),
	}

	content := bytes.Buffer{}
	if err := uitemplates.LogInTemplate.Execute(&content, params); err != nil {
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

// signInWithGoogleHandler accepts the "Sign in with Google" ID token POST.
func (u *WebUI) signInWithGoogleHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/sign-in-with-google" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodPost {
		glog.Errorf("Returning Bad Request because signInWithGoogleHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	session, err := u.db.SessionFromGoogleFederation(ctx, r.PostForm.Get("credential"))
	if err != nil {
		glog.Errorf("Error while processing sign-in: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Cookie,
		SameSite: http.SameSiteStrictMode,
		Expires:  session.Expires,
	})

	target := r.Form.Get("redirect-target")
	if target == "" {
		target = "/"
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (u *WebUI) logOutHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/log-out" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u.logOutGetHandler(w, r)
		return
	case http.MethodPost:
		u.logOutPostHandler(w, r)
		return
	default:
		glog.Errorf("Returning Bad Request because logOutHandler doesn't support method %q", r.Method)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
}

func (u *WebUI) logOutGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		// User is already signed out.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	params := &uitemplates.LogOutParams{
		ActiveUser: activeUser(identity),
	}

	content := bytes.Buffer{}
	if err := uitemplates.LogOutTemplate.Execute(&content, params); err != nil {
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

func (u *WebUI) logOutPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, identity, err := u.getSignedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting signed-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if identity == nil {
		// User is already signed out.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	u.dropSessionState(cookie)

	if err := u.db.DeleteSession(ctx, cookie); err != nil {
		glog.Errorf("Error while deleting session: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		MaxAge: -1,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}
