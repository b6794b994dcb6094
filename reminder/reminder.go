// Package reminder runs a periodic scan over every project and emails the
// project's creator when a milestone is approaching its due date.  Each
// milestone is flagged inside the same transaction that selects it, so a
// milestone is alerted at most once no matter how often the scan runs.
package reminder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"bezaspace/dbtypes"

	"cloud.google.com/go/firestore"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/iterator"
)

// MilestoneAlert is everything one reminder email needs.
type MilestoneAlert struct {
	OwnerUID      string
	ProjectID     string
	ProjectTitle  string
	DueMilestones []DueMilestone
}

// DueMilestone is one approaching milestone inside an alert.
type DueMilestone struct {
	Title    string
	DueDate  time.Time
	DaysLeft int64
}

// Scanner drives the reminder loop.
type Scanner struct {
	firestoreClient *firestore.Client
	sendgridClient  *sendgrid.Client
	recheckPeriod   time.Duration
	leadTime        time.Duration
}

func New(firestoreClient *firestore.Client, sendgridClient *sendgrid.Client, recheckPeriod, leadTime time.Duration) *Scanner {
	return &Scanner{
		firestoreClient: firestoreClient,
		sendgridClient:  sendgridClient,
		recheckPeriod:   recheckPeriod,
		leadTime:        leadTime,
	}
}

func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.recheckPeriod)
	defer ticker.Stop()

	// Scan once right away; the ticker doesn't fire until a full period has
	// elapsed.
	if err := s.scanProjects(ctx); err != nil {
		slog.ErrorContext(ctx, "Error during reminder pass", slog.Any("err", err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := s.scanProjects(ctx); err != nil {
			slog.ErrorContext(ctx, "Error during reminder pass", slog.Any("err", err))
		}
	}
}

func (s *Scanner) scanProjects(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting reminder pass")
	defer func() {
		slog.InfoContext(ctx, "Finished reminder pass")
	}()

	projectsIter := s.firestoreClient.Collection("projects").DocumentRefs(ctx)
	for {
		projectDocRef, err := projectsIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while iterating projects: %w", err)
		}

		if err := s.processProject(ctx, projectDocRef); err != nil {
			return fmt.Errorf("while checking milestones of project %s: %w", projectDocRef.ID, err)
		}
	}

	return nil
}

func (s *Scanner) processProject(ctx context.Context, projectDocRef *firestore.DocumentRef) error {
	var alert *MilestoneAlert

	err := s.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		now := time.Now()

		projectDocSnap, err := txn.Get(projectDocRef)
		if err != nil {
			return fmt.Errorf("while reading project: %w", err)
		}

		project := &dbtypes.Project{}
		if err := projectDocSnap.DataTo(project); err != nil {
			return fmt.Errorf("while deserializing project: %w", err)
		}

		// The transaction function can run more than once, so the alert has
		// to be rebuilt from scratch on every attempt.
		alert = &MilestoneAlert{
			OwnerUID:     project.CreatedBy,
			ProjectID:    projectDocRef.ID,
			ProjectTitle: project.Title,
		}

		due := DueForAlert(project.Milestones, now, s.leadTime)
		if len(due) == 0 {
			return nil
		}

		for _, m := range due {
			remaining := m.DueDate.Sub(now)
			alert.DueMilestones = append(alert.DueMilestones, DueMilestone{
				Title:    m.Title,
				DueDate:  m.DueDate,
				DaysLeft: int64(remaining.Hours() / 24),
			})
			m.ReminderSent = true
		}

		return txn.Update(projectDocRef, []firestore.Update{
			{Path: "milestones", Value: project.Milestones},
		})
	})
	if err != nil {
		return fmt.Errorf("while executing transaction: %w", err)
	}

	if len(alert.DueMilestones) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Sending milestone reminder",
		slog.String("project", alert.ProjectID),
		slog.Int("milestones", len(alert.DueMilestones)))
	if err := s.sendAlert(ctx, alert); err != nil {
		return fmt.Errorf("while sending milestone reminder: %w", err)
	}

	return nil
}

// DueForAlert returns the milestones that need a reminder: due within
// leadTime, not completed, not already alerted.  Overdue milestones that
// were never alerted count too.
func DueForAlert(milestones []*dbtypes.Milestone, now time.Time, leadTime time.Duration) []*dbtypes.Milestone {
	var due []*dbtypes.Milestone
	for _, m := range milestones {
		if m.Status == dbtypes.MilestoneStatusCompleted {
			continue
		}
		if m.ReminderSent {
			continue
		}
		if m.DueDate.Sub(now) > leadTime {
			continue
		}
		due = append(due, m)
	}
	return due
}

func (s *Scanner) sendAlert(ctx context.Context, alert *MilestoneAlert) error {
	if alert.OwnerUID == "" {
		return nil
	}

	ownerSnap, err := s.firestoreClient.Collection("users").Doc(alert.OwnerUID).Get(ctx)
	if err != nil {
		return fmt.Errorf("while retrieving owner %s: %w", alert.OwnerUID, err)
	}

	owner := &dbtypes.UserProfile{}
	if err := ownerSnap.DataTo(owner); err != nil {
		return fmt.Errorf("while unmarshaling owner %s: %w", alert.OwnerUID, err)
	}

	if owner.Email == "" {
		return nil
	}

	return s.sendEmailAlert(ctx, owner, alert)
}

const emailPlain = `
{{- if .DueMilestones -}}
Milestones coming due on "{{.ProjectTitle}}":
{{range .DueMilestones -}}
* {{.Title}}: due {{.DueDate.Format "2006-01-02"}} ({{.DaysLeft}} day(s) left).
{{end}}

Manage your project: https://bezaspace.dev/show-project?id={{.ProjectID}}
{{end}}
`

var emailPlainTemplate = template.Must(template.New("email").Parse(emailPlain))

func (s *Scanner) sendEmailAlert(ctx context.Context, owner *dbtypes.UserProfile, alert *MilestoneAlert) error {
	message := mail.NewV3Mail()
	message.From = mail.NewEmail("BezaSpace Bot", "bot@bezaspace.dev")
	message.Subject = "BezaSpace Milestone Reminder"

	personalization := mail.NewPersonalization()
	personalization.To = append(personalization.To, mail.NewEmail(owner.DisplayName, owner.Email))
	message.Personalizations = append(message.Personalizations, personalization)

	textContent := &bytes.Buffer{}
	if err := emailPlainTemplate.Execute(textContent, alert); err != nil {
		return fmt.Errorf("while templating plain-text email content: %w", err)
	}

	message.Content = append(message.Content, mail.NewContent("text/plain", textContent.String()))

	resp, err := s.sendgridClient.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}

	return nil
}
