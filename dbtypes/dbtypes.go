// Package dbtypes holds the document shapes stored in Firestore.
package dbtypes

import (
	"time"
)

// Project status values.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Milestone status values.
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in-progress"
	MilestoneStatusCompleted  = "completed"
)

// Task status values.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
)

// Resource type and status values.
const (
	ResourceTypeFunding   = "funding"
	ResourceTypeTools     = "tools"
	ResourceTypeEquipment = "equipment"
	ResourceTypeOther     = "other"

	ResourceStatusAvailable = "available"
	ResourceStatusNeeded    = "needed"
	ResourceStatusSecured   = "secured"
)

// Location type values.
const (
	LocationTypeRemote = "remote"
	LocationTypeOnsite = "onsite"
	LocationTypeHybrid = "hybrid"
)

// Project is the primary collaboration unit: a document owned by its creator
// describing goals, team needs, roadmap, and progress.
//
// CreatedBy is immutable after creation.  Optional lists are nil when absent
// in storage, and stay absent when written back (omitempty), so a document
// round-trips without sprouting empty lists.
type Project struct {
	ID          string    `firestore:"-"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Category    string    `firestore:"category"`
	CreatedBy   string    `firestore:"createdBy"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
	Status      string    `firestore:"status"`

	ImageURLs []string `firestore:"imageUrls,omitempty"`

	Goals        []string `firestore:"goals,omitempty"`
	Outcomes     []string `firestore:"outcomes,omitempty"`
	Technologies []string `firestore:"technologies,omitempty"`

	Milestones []*Milestone `firestore:"milestones,omitempty"`

	// Roadmap reuses the Milestone shape for the chronological plan.
	Roadmap []*Milestone `firestore:"roadmap,omitempty"`

	PeopleNeeded *PeopleNeeded `firestore:"peopleNeeded,omitempty"`
	Resources    []*Resource   `firestore:"resources,omitempty"`
	Location     *Location     `firestore:"location,omitempty"`
	Progress     *Progress     `firestore:"progress,omitempty"`
	Tasks        []*Task       `firestore:"tasks,omitempty"`
}

// Milestone is a dated, progress-tracked checkpoint.
type Milestone struct {
	ID          string    `firestore:"id"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	DueDate     time.Time `firestore:"dueDate"`
	Status      string    `firestore:"status"`

	// Percentage in [0, 100].
	Progress int64 `firestore:"progress"`

	// Set by the reminder scanner once a due-date alert has gone out, so the
	// same milestone is not alerted twice.  Never part of form input.
	ReminderSent bool `firestore:"reminderSent,omitempty"`
}

// Resource is something a project has or needs: funding, tools, equipment.
type Resource struct {
	ID          string `firestore:"id"`
	Type        string `firestore:"type"`
	Name        string `firestore:"name"`
	Description string `firestore:"description"`

	// Amount is meaningful only when Type is "funding".
	Amount float64 `firestore:"amount,omitempty"`

	Status string `firestore:"status"`
}

// Task is a unit of work embedded in a project.  Tasks have no identity of
// their own in storage; they are addressable only through their parent
// project.
type Task struct {
	ID          string    `firestore:"id"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Status      string    `firestore:"status"`
	AssignedTo  string    `firestore:"assignedTo,omitempty"`
	Priority    string    `firestore:"priority"`
	DueDate     time.Time `firestore:"dueDate,omitempty"`
}

// PeopleNeeded describes the team a project is looking for.
//
// Roles is deliberately loose: old documents store a role as a bare string,
// newer ones as a structured map.  Use NormalizeRole / NormalizedRoles to get
// a uniform view.
type PeopleNeeded struct {
	Roles  []any    `firestore:"roles,omitempty"`
	Count  int64    `firestore:"count"`
	Skills []string `firestore:"skills,omitempty"`
}

// Location describes where a project happens.
type Location struct {
	Type    string `firestore:"type"`
	Address string `firestore:"address,omitempty"`
	City    string `firestore:"city,omitempty"`
	Country string `firestore:"country,omitempty"`
}

// Progress is the aggregate task-completion block on a project.
type Progress struct {
	// Percentage in [0, 100].
	Overall int64 `firestore:"overall"`

	TasksCompleted int64     `firestore:"tasksCompleted"`
	TotalTasks     int64     `firestore:"totalTasks"`
	LastUpdated    time.Time `firestore:"lastUpdated"`
}

// ProjectFormData is the caller-supplied portion of a new project.  The
// gateway stamps identity, timestamps, and status on top of it.
type ProjectFormData struct {
	Title       string `firestore:"title"`
	Description string `firestore:"description"`
	Category    string `firestore:"category"`

	Goals        []string `firestore:"goals,omitempty"`
	Outcomes     []string `firestore:"outcomes,omitempty"`
	Technologies []string `firestore:"technologies,omitempty"`

	Milestones []*Milestone `firestore:"milestones,omitempty"`
	Roadmap    []*Milestone `firestore:"roadmap,omitempty"`

	PeopleNeeded *PeopleNeeded `firestore:"peopleNeeded,omitempty"`
	Resources    []*Resource   `firestore:"resources,omitempty"`
	Location     *Location     `firestore:"location,omitempty"`
	Tasks        []*Task       `firestore:"tasks,omitempty"`
}

// ProjectUpdate is a partial update to a project.  Nil pointer fields are
// left untouched; non-nil fields replace the stored value wholesale.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Status      *string

	ImageURLs *[]string

	Goals        *[]string
	Outcomes     *[]string
	Technologies *[]string

	Milestones *[]*Milestone
	Roadmap    *[]*Milestone

	PeopleNeeded **PeopleNeeded
	Resources    *[]*Resource
	Location     **Location
	Tasks        *[]*Task
}

// ProgressUpdate is a partial update to a project's progress block.
type ProgressUpdate struct {
	Overall        *int64
	TasksCompleted *int64
	TotalTasks     *int64
}

// TaskUpdate is a partial update to an embedded task.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	AssignedTo  *string
	Priority    *string
	DueDate     *time.Time
}

// ResourceUpdate is a partial update to an embedded resource.
type ResourceUpdate struct {
	Type        *string
	Name        *string
	Description *string
	Amount      *float64
	Status      *string
}

// MilestoneUpdate is a partial update to an embedded milestone.
type MilestoneUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *string
	Progress    *int64
}

// UserProfile is the per-identity profile document.  The document key equals
// the authentication uid; there is exactly one profile per identity, created
// lazily on first sign-in and never deleted.
type UserProfile struct {
	UID         string    `firestore:"uid"`
	DisplayName string    `firestore:"displayName"`
	Email       string    `firestore:"email"`
	PhotoURL    string    `firestore:"photoURL"`
	Bio         string    `firestore:"bio"`
	Username    string    `firestore:"username"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

// ProfileUpdate is a partial update to a user profile.  Nil fields are left
// untouched.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	Username    *string
	PhotoURL    *string
}

// UserSearchResult is the projection of UserProfile shown in search and list
// contexts.  It carries no email.
type UserSearchResult struct {
	UID         string `firestore:"uid"`
	DisplayName string `firestore:"displayName"`
	PhotoURL    string `firestore:"photoURL"`
	Username    string `firestore:"username"`
	Bio         string `firestore:"bio"`
}

// SearchResult returns the privacy-reduced projection of a profile.
func (p *UserProfile) SearchResult() *UserSearchResult {
	return &UserSearchResult{
		UID:         p.UID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Username:    p.Username,
		Bio:         p.Bio,
	}
}

// Session is a browser session.  Lookup is by the cookie value; UID links to
// the profile document of the signed-in identity.
type Session struct {
	Cookie  string    `firestore:"cookie"`
	UID     string    `firestore:"uid"`
	Expires time.Time `firestore:"expires"`
}

// ProjectSearchFilters are the browse-page filters.  All present filters
// intersect (AND).
type ProjectSearchFilters struct {
	Category     string
	Technologies []string
	Location     string
	Status       string
	Skills       []string
	HasFunding   bool
	RemoteOnly   bool

	// Query is free text matched against title, description, technologies,
	// goals, and outcomes.
	Query string
}

// IsZero reports whether no filter is set at all.
func (f *ProjectSearchFilters) IsZero() bool {
	return f.Category == "" && len(f.Technologies) == 0 && f.Location == "" &&
		f.Status == "" && len(f.Skills) == 0 && !f.HasFunding && !f.RemoteOnly &&
		f.Query == ""
}
