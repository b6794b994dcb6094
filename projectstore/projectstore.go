// Package projectstore owns the signed-in user's live project list and the
// mutation API the UI calls.  It subscribes to the data layer's project feed
// for whichever identity is current, and folds gateway failures into a single
// error the UI can show without losing the last good list.
package projectstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bezaspace/auth"
	"bezaspace/dbtypes"
)

// ErrNotSignedIn is raised locally, before any backend call, when a mutation
// requires a signed-in user and there is none.
var ErrNotSignedIn = errors.New("you must be signed in to create a project")

// Gateway is the slice of the data layer the store needs.  *dblayer.DB
// satisfies it.
type Gateway interface {
	CreateProject(ctx context.Context, ownerID string, data *dbtypes.ProjectFormData, imageURLs []string) (string, error)
	UpdateProject(ctx context.Context, id string, update *dbtypes.ProjectUpdate) error
	DeleteProject(ctx context.Context, id string) error
	UpdateProjectProgress(ctx context.Context, id string, update *dbtypes.ProgressUpdate) error
	AddMilestone(ctx context.Context, projectID string, milestone *dbtypes.Milestone) (string, error)
	UpdateMilestone(ctx context.Context, projectID, milestoneID string, update *dbtypes.MilestoneUpdate) error
	AddTask(ctx context.Context, projectID string, task *dbtypes.Task) (string, error)
	UpdateTask(ctx context.Context, projectID, taskID string, update *dbtypes.TaskUpdate) error
	AddResource(ctx context.Context, projectID string, resource *dbtypes.Resource) (string, error)
	UpdateResource(ctx context.Context, projectID, resourceID string, update *dbtypes.ResourceUpdate) error
	DeleteResource(ctx context.Context, projectID, resourceID string) error
	SubscribeToUserProjects(ctx context.Context, ownerID string, onData func([]*dbtypes.Project), onError func(error)) (unsubscribe func())
}

// Store is the per-session view-state holder.  Create one per signed-in
// session, feed Run an identity stream, and read snapshots through the
// accessors.
type Store struct {
	gw Gateway

	mu          sync.Mutex
	identity    *auth.Identity
	projects    []*dbtypes.Project
	loading     bool
	lastErr     error
	unsubscribe func()
}

func New(gw Gateway) *Store {
	return &Store{
		gw:      gw,
		loading: true,
	}
}

// Run consumes the identity stream until ctx is done or the stream closes.
// A nil identity means signed out.  Each change tears down the previous
// subscription and, for a signed-in identity, starts a fresh one: the list
// goes back to loading and fills on the first snapshot.
func (s *Store) Run(ctx context.Context, identities <-chan *auth.Identity) {
	defer s.teardown()

	for {
		select {
		case <-ctx.Done():
			return
		case identity, ok := <-identities:
			if !ok {
				return
			}
			s.switchIdentity(ctx, identity)
		}
	}
}

func (s *Store) switchIdentity(ctx context.Context, identity *auth.Identity) {
	s.teardown()

	s.mu.Lock()
	s.identity = identity
	s.lastErr = nil

	if identity == nil {
		// Signed out: empty list, nothing to load.
		s.projects = nil
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.projects = nil
	s.loading = true
	uid := identity.UID
	s.mu.Unlock()

	unsubscribe := s.gw.SubscribeToUserProjects(ctx, uid,
		func(projects []*dbtypes.Project) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.projects = projects
			s.loading = false
			s.lastErr = nil
		},
		func(err error) {
			// Keep whatever loaded before the failure; the UI shows the
			// error next to stale-but-valid data.
			s.mu.Lock()
			defer s.mu.Unlock()
			s.lastErr = err
			s.loading = false
		},
	)

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

func (s *Store) teardown() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Projects returns a copy of the current list, newest first.
func (s *Store) Projects() []*dbtypes.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*dbtypes.Project(nil), s.projects...)
}

// Loading reports whether the first snapshot for the current identity is
// still outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the most recent failure, or nil after the last operation
// succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Identity returns the current identity, or nil when signed out.
func (s *Store) Identity() *auth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// CreateProject creates a project owned by the current identity.  Fails
// locally with ErrNotSignedIn when there is none; title, description, and
// category must be non-empty.
func (s *Store) CreateProject(ctx context.Context, data *dbtypes.ProjectFormData, imageURLs []string) (string, error) {
	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()

	if identity == nil {
		s.recordErr(ErrNotSignedIn)
		return "", ErrNotSignedIn
	}

	if data.Title == "" || data.Description == "" || data.Category == "" {
		err := fmt.Errorf("title, description, and category are required")
		s.recordErr(err)
		return "", err
	}

	s.clearErr()
	id, err := s.gw.CreateProject(ctx, identity.UID, data, imageURLs)
	if err != nil {
		s.recordErr(err)
		return "", err
	}
	return id, nil
}

// UpdateProject forwards to the gateway, tracking the error field.
func (s *Store) UpdateProject(ctx context.Context, id string, update *dbtypes.ProjectUpdate) error {
	return s.track(s.gw.UpdateProject(ctx, id, update))
}

// DeleteProject forwards to the gateway, tracking the error field.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.track(s.gw.DeleteProject(ctx, id))
}

// UpdateProgress forwards to the gateway, tracking the error field.
func (s *Store) UpdateProgress(ctx context.Context, id string, update *dbtypes.ProgressUpdate) error {
	return s.track(s.gw.UpdateProjectProgress(ctx, id, update))
}

// AddMilestone forwards to the gateway, tracking the error field.
func (s *Store) AddMilestone(ctx context.Context, projectID string, milestone *dbtypes.Milestone) (string, error) {
	s.clearErr()
	id, err := s.gw.AddMilestone(ctx, projectID, milestone)
	if err != nil {
		s.recordErr(err)
		return "", err
	}
	return id, nil
}

// UpdateMilestone forwards to the gateway, tracking the error field.
func (s *Store) UpdateMilestone(ctx context.Context, projectID, milestoneID string, update *dbtypes.MilestoneUpdate) error {
	return s.track(s.gw.UpdateMilestone(ctx, projectID, milestoneID, update))
}

// AddTask forwards to the gateway, tracking the error field.
func (s *Store) AddTask(ctx context.Context, projectID string, task *dbtypes.Task) (string, error) {
	s.clearErr()
	id, err := s.gw.AddTask(ctx, projectID, task)
	if err != nil {
		s.recordErr(err)
		return "", err
	}
	return id, nil
}

// UpdateTask forwards to the gateway, tracking the error field.
func (s *Store) UpdateTask(ctx context.Context, projectID, taskID string, update *dbtypes.TaskUpdate) error {
	return s.track(s.gw.UpdateTask(ctx, projectID, taskID, update))
}

// AddResource forwards to the gateway, tracking the error field.
func (s *Store) AddResource(ctx context.Context, projectID string, resource *dbtypes.Resource) (string, error) {
	s.clearErr()
	id, err := s.gw.AddResource(ctx, projectID, resource)
	if err != nil {
		s.recordErr(err)
		return "", err
	}
	return id, nil
}

// UpdateResource forwards to the gateway, tracking the error field.
func (s *Store) UpdateResource(ctx context.Context, projectID, resourceID string, update *dbtypes.ResourceUpdate) error {
	return s.track(s.gw.UpdateResource(ctx, projectID, resourceID, update))
}

// DeleteResource forwards to the gateway, tracking the error field.
func (s *Store) DeleteResource(ctx context.Context, projectID, resourceID string) error {
	return s.track(s.gw.DeleteResource(ctx, projectID, resourceID))
}

func (s *Store) track(err error) error {
	if err != nil {
		s.recordErr(err)
		return err
	}
	s.clearErr()
	return nil
}

func (s *Store) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}
