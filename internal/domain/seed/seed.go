// Package seed carga el circle de demo (Margaret Johnson y su familia)
// usando los servicios, igual que lo haría la API.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/domain/documents"
	"carecircle/internal/domain/medications"
	"carecircle/internal/domain/profiles"
	"carecircle/internal/domain/recipients"
	"carecircle/internal/domain/tasks"
	"carecircle/internal/domain/updates"
	"carecircle/internal/domain/visits"
	"carecircle/internal/platform/logger"
)

const RecipientName = "Margaret Johnson"

// anchor es el "hoy" de los datos de ejemplo; todo se corre para que
// anchor caiga en el día en que se siembra.
var anchor = time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)

type Services struct {
	Recipients  *recipients.Service
	Circle      *circle.Service
	Updates     *updates.Service
	Medications *medications.Service
	Tasks       *tasks.Service
	Visits      *visits.Service
	Documents   *documents.Service
	Profiles    *profiles.Service
}

type member struct {
	userID       string
	name         string
	relationship string
	scopes       []circle.Scope
}

var (
	allScopes = []circle.Scope{
		circle.ScopeRecipientRead, circle.ScopeUpdatesRead, circle.ScopeUpdatesPost,
		circle.ScopeMedicationsRead, circle.ScopeMedicationsLog, circle.ScopeTasksRead,
		circle.ScopeVisitsRead, circle.ScopeVisitsManage, circle.ScopeDocumentsRead,
		circle.ScopeDocumentsUpload,
	}
	sarah   = member{"demo-sarah", "Sarah Johnson", "Daughter", append([]circle.Scope{circle.ScopeTasksManage, circle.ScopeMedicationsManage}, allScopes...)}
	michael = member{"demo-michael", "Michael Chen", "Son", allScopes}
	emma    = member{"demo-emma", "Emma Wilson", "Nurse", allScopes}
	doctor  = member{"demo-dr-williams", "Dr. Williams", "Doctor", allScopes}
	robert  = member{"demo-robert", "Robert Garcia", "Friend", []circle.Scope{circle.ScopeRecipientRead, circle.ScopeVisitsRead, circle.ScopeVisitsManage}}
)

type loader struct {
	svc     Services
	ownerID string
	recID   string
	shift   time.Duration
	now     time.Time
}

// Load crea el recipient de demo para ownerID. Si ya existe no hace nada
// y devuelve su id.
func Load(ctx context.Context, svc Services, ownerID string, now time.Time, lg logger.Logger) (string, error) {
	if lg == nil {
		lg = logger.Nop()
	}
	ctx = logger.WithContext(ctx, lg)

	existing, err := svc.Recipients.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	for _, r := range existing {
		if r.Name == RecipientName {
			lg.Info("seed: demo data already present", map[string]any{"recipient_id": r.ID})
			return r.ID, nil
		}
	}

	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	l := &loader{svc: svc, ownerID: ownerID, shift: today.Sub(anchor), now: now}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"recipient", l.recipient},
		{"circle", l.circle},
		{"profile", l.profile},
		{"updates", l.updates},
		{"medications", l.medications},
		{"tasks", l.tasks},
		{"visits", l.visits},
		{"documents", l.documents},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return "", fmt.Errorf("seed %s: %w", s.name, err)
		}
	}

	lg.Info("seed: demo data loaded", map[string]any{"recipient_id": l.recID, "owner_id": ownerID})
	return l.recID, nil
}

// at corre un instante de ejemplo ("2025-05-21T08:05") al calendario actual.
func (l *loader) at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		t, _ = time.Parse("2006-01-02", s)
	}
	return t.Add(l.shift)
}

func (l *loader) recipient(ctx context.Context) error {
	bd := time.Date(1948, 3, 2, 0, 0, 0, 0, time.UTC)
	rec, err := l.svc.Recipients.Create(ctx, l.ownerID, recipients.CreateInput{
		Name:      RecipientName,
		BirthDate: &bd,
		Timezone:  "UTC",
		Notes:     "Physical therapy twice a week. Uses a walker.",
	})
	if err != nil {
		return err
	}
	l.recID = rec.ID
	return nil
}

func (l *loader) circle(ctx context.Context) error {
	for _, m := range []member{sarah, michael, emma, doctor, robert} {
		ms, err := l.svc.Circle.Invite(ctx, circle.InviteInput{
			RecipientID:  l.recID,
			OwnerUserID:  l.ownerID,
			MemberUserID: m.userID,
			DisplayName:  m.name,
			Relationship: m.relationship,
			Scopes:       m.scopes,
		})
		if err != nil {
			return err
		}
		if _, err := l.svc.Circle.Accept(ctx, ms.ID, m.userID); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) profile(ctx context.Context) error {
	if _, err := l.svc.Profiles.Get(ctx, l.ownerID); err == nil {
		return nil
	}
	_, err := l.svc.Profiles.Upsert(ctx, l.ownerID, profiles.UpsertInput{
		FirstName:     "John",
		LastName:      "Doe",
		Email:         "john.doe@example.com",
		Phone:         "(555) 123-4567",
		Role:          profiles.RoleCaregiver,
		Relationship:  "Son",
		Notifications: profiles.NotificationPrefs{Email: true, Push: true},
	})
	return err
}

func author(m member) updates.Author {
	return updates.Author{UserID: m.userID, Name: m.name, Relationship: m.relationship}
}

func (l *loader) updates(ctx context.Context) error {
	posts := []struct {
		by       member
		content  string
		likes    []member
		comments []struct {
			by      member
			content string
		}
	}{
		{
			by:      emma,
			content: "Administered evening medications at 8pm. Mrs. Johnson was comfortable and settled for the night. She mentioned having a slight headache earlier, but it subsided after taking her regular pain medication.",
			comments: []struct {
				by      member
				content string
			}{
				{sarah, "Thanks for letting us know about the headache, Emma. Has she mentioned any other pain recently?"},
				{emma, "No other pain mentioned. She said the headache was mild and might have been from reading too long without her glasses."},
			},
		},
		{
			by:      michael,
			content: "Mom's physical therapy session went well today. The therapist said she's making good progress with her mobility exercises. We practiced walking with the walker for about 15 minutes, and she was able to go a bit further than last time.",
			likes:   []member{sarah, emma, doctor},
		},
		{
			by:      doctor,
			content: "Had a good checkup with Mrs. Johnson today. Blood pressure readings are stable at 130/82. Continue with current medication regimen and monitor for any changes. Next appointment scheduled for June 15th.",
			likes:   []member{sarah, michael},
			comments: []struct {
				by      member
				content string
			}{
				{sarah, "Thank you for the update, Dr. Williams. I've added the next appointment to our shared calendar."},
			},
		},
		{
			by:      sarah,
			content: "Mom had a good night's sleep and ate a full breakfast this morning. She seems to be in good spirits today and is looking forward to her physical therapy session this afternoon.",
			likes:   []member{michael, emma},
			comments: []struct {
				by      member
				content string
			}{
				{michael, "That's great to hear! I'll stop by after work today."},
			},
		},
	}

	for _, p := range posts {
		u, err := l.svc.Updates.Post(ctx, updates.PostInput{RecipientID: l.recID, Author: author(p.by), Content: p.content})
		if err != nil {
			return err
		}
		for _, m := range p.likes {
			if _, err := l.svc.Updates.Like(ctx, l.recID, u.ID, m.userID); err != nil {
				return err
			}
		}
		for _, c := range p.comments {
			if _, err := l.svc.Updates.Comment(ctx, l.recID, u.ID, author(c.by), c.content); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *loader) medications(ctx context.Context) error {
	owner := medications.Taker{UserID: l.ownerID, Name: "You"}
	end := l.at("2025-07-15")

	meds := []medications.CreateInput{
		{Name: "Lisinopril", Dosage: "10mg", Frequency: medications.FrequencyDaily, Times: []string{"08:00"}, Instructions: "Take with food", StartDate: l.at("2025-01-15"), EndDate: &end},
		{Name: "Metformin", Dosage: "500mg", Frequency: medications.FrequencyTwiceDaily, Times: []string{"08:00", "20:00"}, Instructions: "Take with meals", StartDate: l.at("2025-02-01")},
		{Name: "Vitamin D", Dosage: "1000 IU", Frequency: medications.FrequencyDaily, Times: []string{"09:00"}, Instructions: "Take with breakfast", StartDate: l.at("2025-03-10")},
		{Name: "Ibuprofen", Dosage: "400mg", Frequency: medications.FrequencyAsNeeded, Instructions: "Take for pain, not more than 3 times per day", StartDate: l.at("2025-04-05")},
	}

	byName := map[string]medications.Medication{}
	for _, in := range meds {
		in.RecipientID = l.recID
		in.CreatedBy = owner
		m, err := l.svc.Medications.Create(ctx, in)
		if err != nil {
			return err
		}
		byName[m.Name] = m
	}

	logs := []struct {
		med   string
		at    string
		by    member
		notes string
	}{
		{"Metformin", "2025-05-20T20:00", michael, "Taken with dinner"},
		{"Lisinopril", "2025-05-21T08:05", sarah, "Taken with breakfast"},
		{"Metformin", "2025-05-21T08:10", sarah, "Taken with breakfast"},
		{"Vitamin D", "2025-05-21T09:00", michael, ""},
	}
	for _, dl := range logs {
		takenAt := l.at(dl.at)
		if takenAt.After(l.now) {
			continue
		}
		if _, err := l.svc.Medications.LogDose(ctx, medications.LogDoseInput{
			RecipientID:  l.recID,
			MedicationID: byName[dl.med].ID,
			TakenBy:      medications.Taker{UserID: dl.by.userID, Name: dl.by.name},
			TakenAt:      takenAt,
			Notes:        dl.notes,
		}); err != nil {
			return err
		}
	}

	_, err := l.svc.Medications.SetStatus(ctx, l.recID, byName["Ibuprofen"].ID, medications.StatusCompleted)
	return err
}

func person(m member) tasks.Person { return tasks.Person{UserID: m.userID, Name: m.name} }

func (l *loader) tasks(ctx context.Context) error {
	you := tasks.Person{UserID: l.ownerID, Name: "You"}
	items := []struct {
		in   tasks.CreateInput
		done *tasks.Person
	}{
		{in: tasks.CreateInput{Title: "Schedule doctor appointment", Description: "Call Dr. Smith to schedule the quarterly checkup", DueAt: l.at("2025-05-22T17:00"), AssignedTo: person(sarah), Priority: tasks.PriorityHigh}},
		{in: tasks.CreateInput{Title: "Refill prescriptions", Description: "Pick up new prescriptions from the pharmacy", DueAt: l.at("2025-05-21T18:00"), AssignedTo: person(michael), Priority: tasks.PriorityMedium}},
		{in: tasks.CreateInput{Title: "Weekly grocery shopping", Description: "Buy groceries according to the shared shopping list", DueAt: l.at("2025-05-25T12:00"), AssignedTo: person(sarah), Priority: tasks.PriorityMedium}},
		{in: tasks.CreateInput{Title: "Change bed sheets", Description: "Change and wash bed sheets", DueAt: l.at("2025-05-18T20:00"), AssignedTo: you, Priority: tasks.PriorityLow}, done: &you},
		{in: tasks.CreateInput{Title: "Schedule physical therapy", Description: "Call the physical therapist to schedule next week's sessions", DueAt: l.at("2025-05-16T17:00"), AssignedTo: person(emma), Priority: tasks.PriorityHigh}, done: ptr(person(emma))},
	}

	for _, it := range items {
		it.in.RecipientID = l.recID
		it.in.AssignedBy = you
		t, err := l.svc.Tasks.Create(ctx, it.in)
		if err != nil {
			return err
		}
		if it.done != nil {
			if _, err := l.svc.Tasks.Complete(ctx, l.recID, t.ID, *it.done, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func (l *loader) visits(ctx context.Context) error {
	items := []struct {
		by         member
		date       string
		start, end string
		notes      string
	}{
		{sarah, "2025-05-25", "10:00", "12:00", "Bringing homemade soup and new books"},
		{michael, "2025-05-27", "14:00", "16:00", "Doctor appointment follow-up"},
		{emma, "2025-05-30", "11:00", "13:30", "Lunch and medication review"},
		{robert, "2025-06-02", "15:00", "17:00", "Bringing grandchildren for a visit"},
	}
	for _, v := range items {
		if _, err := l.svc.Visits.Schedule(ctx, visits.ScheduleInput{
			RecipientID:   l.recID,
			VisitorName:   v.by.name,
			Date:          l.at(v.date),
			StartTime:     v.start,
			EndTime:       v.end,
			Notes:         v.notes,
			CreatedBy:     v.by.userID,
			CreatedByName: v.by.name,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) documents(ctx context.Context) error {
	items := []struct {
		name     string
		category documents.Category
		desc     string
		by       member
	}{
		{"Diet Restrictions.docx", documents.CategoryCare, "List of dietary restrictions and recommended meal plans", sarah},
		{"Living Will.pdf", documents.CategoryLegal, "Signed living will document", michael},
		{"Physical Therapy Exercises.pdf", documents.CategoryCare, "Instructions for daily physical therapy exercises", doctor},
		{"Medication Schedule.docx", documents.CategoryCare, "Detailed medication schedule with dosages and instructions", emma},
		{"Power of Attorney.pdf", documents.CategoryLegal, "Signed power of attorney document", sarah},
		{"Insurance Policy.pdf", documents.CategoryInsurance, "Current health insurance policy details and contact information", michael},
		{"Medical History Summary.pdf", documents.CategoryMedical, "Complete medical history including past surgeries and chronic conditions", sarah},
	}
	for _, it := range items {
		// contenido de muestra: solo la descripción
		if _, err := l.svc.Documents.Upload(ctx, documents.UploadInput{
			RecipientID:    l.recID,
			Name:           it.name,
			Category:       it.category,
			Description:    it.desc,
			ContentType:    "text/plain; charset=utf-8",
			Body:           strings.NewReader(it.name + "\n\n" + it.desc + "\n"),
			UploadedBy:     it.by.userID,
			UploadedByName: it.by.name,
		}); err != nil {
			return err
		}
	}
	return nil
}
