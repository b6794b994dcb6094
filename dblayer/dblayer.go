// Package dblayer packages up all Firestore access for BezaSpace: project
// CRUD, live project subscriptions, embedded milestone/task helpers, and the
// user profile collection.
//
// Queries deliberately avoid server-side ordering.  Results are sorted in
// application memory by createdAt descending, which keeps every query simple
// enough to run without a composite index.
package dblayer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"bezaspace/dbtypes"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	projectsCollection = "projects"
	usersCollection    = "users"
	sessionsCollection = "sessions"
)

type DB struct {
	firestoreClient     *firestore.Client
	googleOAuthClientID string
}

func New(firestoreClient *firestore.Client, googleOAuthClientID string) *DB {
	return &DB{
		firestoreClient:     firestoreClient,
		googleOAuthClientID: googleOAuthClientID,
	}
}

var (
	ErrMilestoneNotFound = errors.New("no milestone with that id")
	ErrTaskNotFound      = errors.New("no task with that id")
	ErrResourceNotFound  = errors.New("no resource with that id")
)

// GatewayError wraps a failed backend call with the name of the operation
// that failed.  Callers surface Op-based messages to users and never the
// backend detail.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("while %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func gatewayErr(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

// CreateProject stores a new project owned by ownerID and returns the
// generated document id.  The document is stamped with
// createdAt == updatedAt == now and status "active".
//
// Field validation (non-empty title, description, category) is the caller's
// job; the gateway stores what it is given.
func (db *DB) CreateProject(ctx context.Context, ownerID string, data *dbtypes.ProjectFormData, imageURLs []string) (string, error) {
	now := time.Now()
	project := newProjectDoc(ownerID, data, imageURLs, now)

	ref := db.firestoreClient.Collection(projectsCollection).NewDoc()
	if _, err := ref.Create(ctx, project); err != nil {
		return "", gatewayErr("creating project", err)
	}

	slog.InfoContext(ctx, "Created project", slog.String("project", ref.ID), slog.String("owner", ownerID))

	return ref.ID, nil
}

// newProjectDoc merges form data with the server-stamped fields.
func newProjectDoc(ownerID string, data *dbtypes.ProjectFormData, imageURLs []string, now time.Time) *dbtypes.Project {
	return &dbtypes.Project{
		Title:        data.Title,
		Description:  data.Description,
		Category:     data.Category,
		CreatedBy:    ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       dbtypes.ProjectStatusActive,
		ImageURLs:    imageURLs,
		Goals:        data.Goals,
		Outcomes:     data.Outcomes,
		Technologies: data.Technologies,
		Milestones:   data.Milestones,
		Roadmap:      data.Roadmap,
		PeopleNeeded: data.PeopleNeeded,
		Resources:    data.Resources,
		Location:     data.Location,
		Tasks:        data.Tasks,
	}
}

// GetProjectByID returns the project with the given id, or (nil, nil) if no
// such project exists.  Absence is an ordinary outcome, not an error.
func (db *DB) GetProjectByID(ctx context.Context, id string) (*dbtypes.Project, error) {
	snap, err := db.firestoreClient.Collection(projectsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, gatewayErr("loading project", err)
	}

	project := &dbtypes.Project{}
	if err := snap.DataTo(project); err != nil {
		return nil, gatewayErr("loading project", err)
	}
	project.ID = snap.Ref.ID

	return project, nil
}

// GetUserProjects returns all projects created by ownerID, newest first.
func (db *DB) GetUserProjects(ctx context.Context, ownerID string) ([]*dbtypes.Project, error) {
	q := db.firestoreClient.Collection(projectsCollection).Where("createdBy", "==", ownerID)
	projects, err := db.fetchProjects(ctx, q)
	if err != nil {
		return nil, gatewayErr("loading projects", err)
	}
	return projects, nil
}

// GetAllProjects returns every project, newest first.
func (db *DB) GetAllProjects(ctx context.Context) ([]*dbtypes.Project, error) {
	q := db.firestoreClient.Collection(projectsCollection).Query
	projects, err := db.fetchProjects(ctx, q)
	if err != nil {
		return nil, gatewayErr("loading projects", err)
	}
	return projects, nil
}

func (db *DB) fetchProjects(ctx context.Context, q firestore.Query) ([]*dbtypes.Project, error) {
	var projects []*dbtypes.Project

	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while iterating projects: %w", err)
		}

		project := &dbtypes.Project{}
		if err := snap.DataTo(project); err != nil {
			return nil, fmt.Errorf("while unmarshaling project %s: %w", snap.Ref.ID, err)
		}
		project.ID = snap.Ref.ID

		projects = append(projects, project)
	}

	SortProjectsByCreatedAtDesc(projects)
	return projects, nil
}

// SortProjectsByCreatedAtDesc sorts newest-first, in place.  The sort is
// stable, so re-sorting an already-sorted list is a no-op and ties keep the
// underlying fetch order.
func SortProjectsByCreatedAtDesc(projects []*dbtypes.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
}

// SubscribeToUserProjects establishes a live feed of ownerID's projects.
// Every change redelivers the entire current matching set to onData, sorted
// newest-first.
//
// The feed is terminal on error: a failure is delivered exactly once to
// onError, after which no further callbacks arrive.  Callers that want to
// keep watching must establish a new subscription; nothing restarts
// implicitly.  The returned unsubscribe function stops all future callbacks
// and is safe to call repeatedly, including after the feed has already
// failed.
func (db *DB) SubscribeToUserProjects(ctx context.Context, ownerID string, onData func([]*dbtypes.Project), onError func(error)) (unsubscribe func()) {
	q := db.firestoreClient.Collection(projectsCollection).Where("createdBy", "==", ownerID)
	return db.subscribeProjects(ctx, q, onData, onError)
}

// SubscribeToAllProjects is SubscribeToUserProjects without the owner filter.
func (db *DB) SubscribeToAllProjects(ctx context.Context, onData func([]*dbtypes.Project), onError func(error)) (unsubscribe func()) {
	q := db.firestoreClient.Collection(projectsCollection).Query
	return db.subscribeProjects(ctx, q, onData, onError)
}

func (db *DB) subscribeProjects(ctx context.Context, q firestore.Query, onData func([]*dbtypes.Project), onError func(error)) (unsubscribe func()) {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		snapIter := q.Snapshots(ctx)
		defer snapIter.Stop()

		for {
			qs, err := snapIter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
					// Unsubscribed; nothing to report.
					return
				}
				onError(gatewayErr("watching projects", err))
				return
			}

			snaps, err := qs.Documents.GetAll()
			if err != nil {
				onError(gatewayErr("watching projects", err))
				return
			}

			projects := make([]*dbtypes.Project, 0, len(snaps))
			for _, snap := range snaps {
				project := &dbtypes.Project{}
				if err := snap.DataTo(project); err != nil {
					onError(gatewayErr("watching projects", err))
					return
				}
				project.ID = snap.Ref.ID
				projects = append(projects, project)
			}

			SortProjectsByCreatedAtDesc(projects)
			onData(projects)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

// UpdateProject merges the non-nil fields of update into the stored project
// and stamps updatedAt.  It fails if the project does not exist.
func (db *DB) UpdateProject(ctx context.Context, id string, update *dbtypes.ProjectUpdate) error {
	updates := projectUpdates(update)
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	ref := db.firestoreClient.Collection(projectsCollection).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		return gatewayErr("updating project", err)
	}

	return nil
}

func projectUpdates(u *dbtypes.ProjectUpdate) []firestore.Update {
	var updates []firestore.Update

	if u.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *u.Title})
	}
	if u.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *u.Description})
	}
	if u.Category != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: *u.Category})
	}
	if u.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: *u.Status})
	}
	if u.ImageURLs != nil {
		updates = append(updates, firestore.Update{Path: "imageUrls", Value: *u.ImageURLs})
	}
	if u.Goals != nil {
		updates = append(updates, firestore.Update{Path: "goals", Value: *u.Goals})
	}
	if u.Outcomes != nil {
		updates = append(updates, firestore.Update{Path: "outcomes", Value: *u.Outcomes})
	}
	if u.Technologies != nil {
		updates = append(updates, firestore.Update{Path: "technologies", Value: *u.Technologies})
	}
	if u.Milestones != nil {
		updates = append(updates, firestore.Update{Path: "milestones", Value: *u.Milestones})
	}
	if u.Roadmap != nil {
		updates = append(updates, firestore.Update{Path: "roadmap", Value: *u.Roadmap})
	}
	if u.PeopleNeeded != nil {
		updates = append(updates, firestore.Update{Path: "peopleNeeded", Value: *u.PeopleNeeded})
	}
	if u.Resources != nil {
		updates = append(updates, firestore.Update{Path: "resources", Value: *u.Resources})
	}
	if u.Location != nil {
		updates = append(updates, firestore.Update{Path: "location", Value: *u.Location})
	}
	if u.Tasks != nil {
		updates = append(updates, firestore.Update{Path: "tasks", Value: *u.Tasks})
	}

	return updates
}

// DeleteProject removes the project.  Deleting an id that no longer exists
// is a success, so deletes are idempotent.
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(id)
	if _, err := ref.Delete(ctx); err != nil {
		return gatewayErr("deleting project", err)
	}
	return nil
}

// UpdateProjectProgress merges a partial progress block onto the stored one,
// defaulting to all-zero when the project has no progress yet.  The merge
// runs in a transaction so a concurrent writer cannot be silently
// overwritten.
func (db *DB) UpdateProjectProgress(ctx context.Context, id string, update *dbtypes.ProgressUpdate) error {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(id)

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		progress := project.Progress
		if progress == nil {
			progress = &dbtypes.Progress{}
		}
		if update.Overall != nil {
			progress.Overall = *update.Overall
		}
		if update.TasksCompleted != nil {
			progress.TasksCompleted = *update.TasksCompleted
		}
		if update.TotalTasks != nil {
			progress.TotalTasks = *update.TotalTasks
		}
		progress.LastUpdated = now

		return txn.Update(ref, []firestore.Update{
			{Path: "progress", Value: progress},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return gatewayErr("updating project progress", err)
	}

	return nil
}

// AddMilestone appends a milestone to the project and returns its generated
// id.
func (db *DB) AddMilestone(ctx context.Context, projectID string, milestone *dbtypes.Milestone) (string, error) {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)
	id := uuid.NewString()

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		added := *milestone
		added.ID = id
		project.Milestones = append(project.Milestones, &added)

		return txn.Update(ref, []firestore.Update{
			{Path: "milestones", Value: project.Milestones},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return "", gatewayErr("adding milestone", err)
	}

	return id, nil
}

// UpdateMilestone applies the non-nil fields of update to the milestone with
// the given id.  Returns ErrMilestoneNotFound if the project has no such
// milestone.
func (db *DB) UpdateMilestone(ctx context.Context, projectID, milestoneID string, update *dbtypes.MilestoneUpdate) error {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		found := false
		for _, m := range project.Milestones {
			if m.ID != milestoneID {
				continue
			}
			found = true
			if update.Title != nil {
				m.Title = *update.Title
			}
			if update.Description != nil {
				m.Description = *update.Description
			}
			if update.DueDate != nil {
				m.DueDate = *update.DueDate
			}
			if update.Status != nil {
				m.Status = *update.Status
			}
			if update.Progress != nil {
				m.Progress = *update.Progress
			}
		}
		if !found {
			return ErrMilestoneNotFound
		}

		return txn.Update(ref, []firestore.Update{
			{Path: "milestones", Value: project.Milestones},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		if errors.Is(err, ErrMilestoneNotFound) {
			return err
		}
		return gatewayErr("updating milestone", err)
	}

	return nil
}

// AddTask appends a task to the project and returns its generated id.
func (db *DB) AddTask(ctx context.Context, projectID string, task *dbtypes.Task) (string, error) {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)
	id := uuid.NewString()

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		added := *task
		added.ID = id
		project.Tasks = append(project.Tasks, &added)

		return txn.Update(ref, []firestore.Update{
			{Path: "tasks", Value: project.Tasks},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return "", gatewayErr("adding task", err)
	}

	return id, nil
}

// UpdateTask applies the non-nil fields of update to the task with the given
// id, recomputes the project's progress block from the resulting task list,
// and writes both in the same update.  Returns ErrTaskNotFound if the
// project has no such task.
func (db *DB) UpdateTask(ctx context.Context, projectID, taskID string, update *dbtypes.TaskUpdate) error {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		found := false
		for _, t := range project.Tasks {
			if t.ID != taskID {
				continue
			}
			found = true
			if update.Title != nil {
				t.Title = *update.Title
			}
			if update.Description != nil {
				t.Description = *update.Description
			}
			if update.Status != nil {
				t.Status = *update.Status
			}
			if update.AssignedTo != nil {
				t.AssignedTo = *update.AssignedTo
			}
			if update.Priority != nil {
				t.Priority = *update.Priority
			}
			if update.DueDate != nil {
				t.DueDate = *update.DueDate
			}
		}
		if !found {
			return ErrTaskNotFound
		}

		return txn.Update(ref, []firestore.Update{
			{Path: "tasks", Value: project.Tasks},
			{Path: "progress", Value: RecomputeProgress(project.Tasks, now)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return err
		}
		return gatewayErr("updating task", err)
	}

	return nil
}

// AddResource appends a resource to the project and returns its generated
// id.
func (db *DB) AddResource(ctx context.Context, projectID string, resource *dbtypes.Resource) (string, error) {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)
	id := uuid.NewString()

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		added := *resource
		added.ID = id
		project.Resources = append(project.Resources, &added)

		return txn.Update(ref, []firestore.Update{
			{Path: "resources", Value: project.Resources},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return "", gatewayErr("adding resource", err)
	}

	return id, nil
}

// UpdateResource applies the non-nil fields of update to the resource with
// the given id.  Returns ErrResourceNotFound if the project has no such
// resource.
func (db *DB) UpdateResource(ctx context.Context, projectID, resourceID string, update *dbtypes.ResourceUpdate) error {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		found := false
		for _, res := range project.Resources {
			if res.ID != resourceID {
				continue
			}
			found = true
			if update.Type != nil {
				res.Type = *update.Type
			}
			if update.Name != nil {
				res.Name = *update.Name
			}
			if update.Description != nil {
				res.Description = *update.Description
			}
			if update.Amount != nil {
				res.Amount = *update.Amount
			}
			if update.Status != nil {
				res.Status = *update.Status
			}
		}
		if !found {
			return ErrResourceNotFound
		}

		return txn.Update(ref, []firestore.Update{
			{Path: "resources", Value: project.Resources},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return err
		}
		return gatewayErr("updating resource", err)
	}

	return nil
}

// DeleteResource removes the resource with the given id from the project.
// Removing an id that is not present is a success, matching project deletes.
func (db *DB) DeleteResource(ctx context.Context, projectID, resourceID string) error {
	ref := db.firestoreClient.Collection(projectsCollection).Doc(projectID)

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		project, err := getProjectTxn(txn, ref)
		if err != nil {
			return err
		}

		kept := RemoveResourceByID(project.Resources, resourceID)

		return txn.Update(ref, []firestore.Update{
			{Path: "resources", Value: kept},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return gatewayErr("deleting resource", err)
	}

	return nil
}

// RemoveResourceByID returns the resource list without the entry carrying
// the given id.  The input list is not modified.
func RemoveResourceByID(resources []*dbtypes.Resource, resourceID string) []*dbtypes.Resource {
	var kept []*dbtypes.Resource
	for _, res := range resources {
		if res.ID != resourceID {
			kept = append(kept, res)
		}
	}
	return kept
}

// RecomputeProgress derives the aggregate progress block from a task list.
// With no tasks at all, overall is 0.
func RecomputeProgress(tasks []*dbtypes.Task, now time.Time) *dbtypes.Progress {
	var completed int64
	for _, t := range tasks {
		if t.Status == dbtypes.TaskStatusDone {
			completed++
		}
	}

	total := int64(len(tasks))
	var overall int64
	if total > 0 {
		overall = int64(math.Round(100 * float64(completed) / float64(total)))
	}

	return &dbtypes.Progress{
		Overall:        overall,
		TasksCompleted: completed,
		TotalTasks:     total,
		LastUpdated:    now,
	}
}

func getProjectTxn(txn *firestore.Transaction, ref *firestore.DocumentRef) (*dbtypes.Project, error) {
	snap, err := txn.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("while retrieving project %s: %w", ref.ID, err)
	}

	project := &dbtypes.Project{}
	if err := snap.DataTo(project); err != nil {
		return nil, fmt.Errorf("while unmarshaling project %s: %w", ref.ID, err)
	}
	project.ID = snap.Ref.ID

	return project, nil
}
