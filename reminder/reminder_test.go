package reminder

import (
	"testing"
	"time"

	"bezaspace/dbtypes"
)

func TestDueForAlert(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	leadTime := 5 * 24 * time.Hour

	milestones := []*dbtypes.Milestone{
		{ID: "soon", Title: "Soon", DueDate: now.Add(2 * 24 * time.Hour), Status: dbtypes.MilestoneStatusPending},
		{ID: "far", Title: "Far", DueDate: now.Add(30 * 24 * time.Hour), Status: dbtypes.MilestoneStatusPending},
		{ID: "done", Title: "Done", DueDate: now.Add(1 * 24 * time.Hour), Status: dbtypes.MilestoneStatusCompleted},
		{ID: "sent", Title: "Sent", DueDate: now.Add(1 * 24 * time.Hour), Status: dbtypes.MilestoneStatusPending, ReminderSent: true},
		{ID: "overdue", Title: "Overdue", DueDate: now.Add(-24 * time.Hour), Status: dbtypes.MilestoneStatusInProgress},
	}

	due := DueForAlert(milestones, now, leadTime)

	var got []string
	for _, m := range due {
		got = append(got, m.ID)
	}
	want := map[string]bool{"soon": true, "overdue": true}
	if len(got) != len(want) {
		t.Fatalf("DueForAlert picked %v, want exactly %v", got, want)
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("DueForAlert picked %q, which should not alert", id)
		}
	}
}

func TestDueForAlertReturnsLivePointers(t *testing.T) {
	now := time.Now()
	milestones := []*dbtypes.Milestone{
		{ID: "m1", DueDate: now.Add(time.Hour), Status: dbtypes.MilestoneStatusPending},
	}

	due := DueForAlert(milestones, now, 24*time.Hour)
	if len(due) != 1 {
		t.Fatalf("Got %d due milestones, want 1", len(due))
	}

	// Flagging through the returned pointer must mark the original list, so
	// the transaction writes the flag back.
	due[0].ReminderSent = true
	if !milestones[0].ReminderSent {
		t.Errorf("Flag did not propagate to the stored list")
	}
}

func TestDueForAlertEmptyList(t *testing.T) {
	if due := DueForAlert(nil, time.Now(), time.Hour); len(due) != 0 {
		t.Errorf("Got %v, want nothing due", due)
	}
}
