package projectstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bezaspace/auth"
	"bezaspace/dbtypes"
)

type subscription struct {
	ownerID string
	onData  func([]*dbtypes.Project)
	onError func(error)
}

// fakeGateway records calls and hands subscription callbacks back to the
// test so it can play the backend.
type fakeGateway struct {
	mu            sync.Mutex
	subscribed    chan *subscription
	unsubscribes  int
	createCalls   int
	createOwner   string
	createErr     error
	updateErr     error
	updateCalls   int
	deleteCalls   int
	taskUpdates   int
	milestoneAdds int
	resourceAdds  int
	resourceDels  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{subscribed: make(chan *subscription, 4)}
}

func (g *fakeGateway) CreateProject(ctx context.Context, ownerID string, data *dbtypes.ProjectFormData, imageURLs []string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	g.createOwner = ownerID
	if g.createErr != nil {
		return "", g.createErr
	}
	return "p-new", nil
}

func (g *fakeGateway) UpdateProject(ctx context.Context, id string, update *dbtypes.ProjectUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCalls++
	return g.updateErr
}

func (g *fakeGateway) DeleteProject(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls++
	return nil
}

func (g *fakeGateway) UpdateProjectProgress(ctx context.Context, id string, update *dbtypes.ProgressUpdate) error {
	return nil
}

func (g *fakeGateway) AddMilestone(ctx context.Context, projectID string, milestone *dbtypes.Milestone) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.milestoneAdds++
	return "m-new", nil
}

func (g *fakeGateway) UpdateMilestone(ctx context.Context, projectID, milestoneID string, update *dbtypes.MilestoneUpdate) error {
	return nil
}

func (g *fakeGateway) AddTask(ctx context.Context, projectID string, task *dbtypes.Task) (string, error) {
	return "t-new", nil
}

func (g *fakeGateway) UpdateTask(ctx context.Context, projectID, taskID string, update *dbtypes.TaskUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.taskUpdates++
	return g.updateErr
}

func (g *fakeGateway) AddResource(ctx context.Context, projectID string, resource *dbtypes.Resource) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resourceAdds++
	return "r-new", nil
}

func (g *fakeGateway) UpdateResource(ctx context.Context, projectID, resourceID string, update *dbtypes.ResourceUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updateErr
}

func (g *fakeGateway) DeleteResource(ctx context.Context, projectID, resourceID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resourceDels++
	return nil
}

func (g *fakeGateway) SubscribeToUserProjects(ctx context.Context, ownerID string, onData func([]*dbtypes.Project), onError func(error)) func() {
	sub := &subscription{ownerID: ownerID, onData: onData, onError: onError}
	g.subscribed <- sub
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.unsubscribes++
	}
}

func (g *fakeGateway) unsubscribeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unsubscribes
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func startStore(t *testing.T, gw Gateway) (*Store, chan *auth.Identity) {
	t.Helper()
	store := New(gw)
	identities := make(chan *auth.Identity)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go store.Run(ctx, identities)
	return store, identities
}

func awaitSubscription(t *testing.T, gw *fakeGateway) *subscription {
	t.Helper()
	select {
	case sub := <-gw.subscribed:
		return sub
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for a subscription")
		return nil
	}
}

func TestNewStoreIsLoading(t *testing.T) {
	store := New(newFakeGateway())
	if !store.Loading() {
		t.Errorf("Fresh store should report loading")
	}
	if len(store.Projects()) != 0 {
		t.Errorf("Fresh store should have no projects")
	}
}

func TestSignInDeliversProjects(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)

	identities <- &auth.Identity{UID: "u1"}
	sub := awaitSubscription(t, gw)

	if sub.ownerID != "u1" {
		t.Errorf("Subscribed to %q, want %q", sub.ownerID, "u1")
	}

	sub.onData([]*dbtypes.Project{{ID: "p1", CreatedBy: "u1"}})

	if store.Loading() {
		t.Errorf("Store still loading after first snapshot")
	}
	got := store.Projects()
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("Projects = %+v, want just p1", got)
	}
}

func TestSignOutEmptiesWithoutLoading(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)

	identities <- &auth.Identity{UID: "u1"}
	sub := awaitSubscription(t, gw)
	sub.onData([]*dbtypes.Project{{ID: "p1"}})

	identities <- nil
	waitFor(t, "sign-out teardown", func() bool { return gw.unsubscribeCount() == 1 })

	if store.Loading() {
		t.Errorf("Signed-out store should not be loading")
	}
	if got := store.Projects(); len(got) != 0 {
		t.Errorf("Projects = %+v, want empty after sign-out", got)
	}
}

func TestIdentitySwitchResubscribes(t *testing.T) {
	gw := newFakeGateway()
	_, identities := startStore(t, gw)

	identities <- &auth.Identity{UID: "u1"}
	first := awaitSubscription(t, gw)
	if first.ownerID != "u1" {
		t.Fatalf("First subscription for %q, want u1", first.ownerID)
	}

	identities <- &auth.Identity{UID: "u2"}
	second := awaitSubscription(t, gw)
	if second.ownerID != "u2" {
		t.Errorf("Second subscription for %q, want u2", second.ownerID)
	}
	if gw.unsubscribeCount() != 1 {
		t.Errorf("Unsubscribes = %d, want 1 after identity switch", gw.unsubscribeCount())
	}
}

func TestSubscriptionErrorKeepsLoadedData(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)

	identities <- &auth.Identity{UID: "u1"}
	sub := awaitSubscription(t, gw)
	sub.onData([]*dbtypes.Project{{ID: "p1"}})

	feedErr := errors.New("watch broke")
	sub.onError(feedErr)

	if store.Err() == nil {
		t.Errorf("Err() = nil, want the feed error")
	}
	if got := store.Projects(); len(got) != 1 {
		t.Errorf("Projects = %+v, want the pre-error list intact", got)
	}
}

func TestCreateRequiresSignIn(t *testing.T) {
	store := New(newFakeGateway())

	_, err := store.CreateProject(context.Background(), &dbtypes.ProjectFormData{
		Title: "t", Description: "d", Category: "c",
	}, nil)
	if !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Got %v, want ErrNotSignedIn", err)
	}
	if !errors.Is(store.Err(), ErrNotSignedIn) {
		t.Errorf("Store error field not set")
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)
	identities <- &auth.Identity{UID: "u1"}
	awaitSubscription(t, gw)

	_, err := store.CreateProject(context.Background(), &dbtypes.ProjectFormData{Title: "only a title"}, nil)
	if err == nil {
		t.Fatalf("Expected a validation error")
	}

	gw.mu.Lock()
	calls := gw.createCalls
	gw.mu.Unlock()
	if calls != 0 {
		t.Errorf("Gateway was called %d times for invalid input, want 0", calls)
	}
}

func TestCreateUsesCurrentIdentity(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)
	identities <- &auth.Identity{UID: "u1"}
	awaitSubscription(t, gw)

	id, err := store.CreateProject(context.Background(), &dbtypes.ProjectFormData{
		Title: "Demo", Description: "d", Category: "Web Development",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "p-new" {
		t.Errorf("Got id %q, want p-new", id)
	}

	gw.mu.Lock()
	owner := gw.createOwner
	gw.mu.Unlock()
	if owner != "u1" {
		t.Errorf("Created as %q, want u1", owner)
	}
}

func TestResourceMutationsForwardAndTrackErrors(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)
	identities <- &auth.Identity{UID: "u1"}
	awaitSubscription(t, gw)

	id, err := store.AddResource(context.Background(), "p1", &dbtypes.Resource{Name: "Grant", Type: "funding"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "r-new" {
		t.Errorf("Got id %q, want r-new", id)
	}

	boom := errors.New("update failed")
	gw.mu.Lock()
	gw.updateErr = boom
	gw.mu.Unlock()

	status := "secured"
	if err := store.UpdateResource(context.Background(), "p1", "r-new", &dbtypes.ResourceUpdate{Status: &status}); !errors.Is(err, boom) {
		t.Fatalf("Got %v, want the gateway error", err)
	}
	if !errors.Is(store.Err(), boom) {
		t.Errorf("Store error field not set after failed resource update")
	}

	gw.mu.Lock()
	gw.updateErr = nil
	gw.mu.Unlock()

	if err := store.DeleteResource(context.Background(), "p1", "r-new"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.Err() != nil {
		t.Errorf("Error field should clear after a successful delete, got %v", store.Err())
	}

	gw.mu.Lock()
	adds, dels := gw.resourceAdds, gw.resourceDels
	gw.mu.Unlock()
	if adds != 1 || dels != 1 {
		t.Errorf("Gateway saw %d adds and %d deletes, want 1 and 1", adds, dels)
	}
}

func TestMutationErrorIsTrackedAndCleared(t *testing.T) {
	gw := newFakeGateway()
	store, identities := startStore(t, gw)
	identities <- &auth.Identity{UID: "u1"}
	awaitSubscription(t, gw)

	boom := errors.New("update failed")
	gw.mu.Lock()
	gw.updateErr = boom
	gw.mu.Unlock()

	if err := store.UpdateProject(context.Background(), "p1", &dbtypes.ProjectUpdate{}); !errors.Is(err, boom) {
		t.Fatalf("Got %v, want the gateway error", err)
	}
	if !errors.Is(store.Err(), boom) {
		t.Errorf("Store error field not set after failed update")
	}

	gw.mu.Lock()
	gw.updateErr = nil
	gw.mu.Unlock()

	if err := store.DeleteProject(context.Background(), "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.Err() != nil {
		t.Errorf("Error field should clear after a successful operation, got %v", store.Err())
	}
}
