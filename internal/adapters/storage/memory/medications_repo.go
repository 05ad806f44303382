package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"carecircle/internal/domain/medications"
)

type medicationRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
	logs []medications.DoseLog // append-only
}

func NewMedicationsRepo() medications.Repository {
	return &medicationRepo{byID: make(map[string]medications.Medication)}
}

func cloneMedication(m medications.Medication) medications.Medication {
	m.Times = cloneSlice(m.Times)
	m.EndDate = clonePtr(m.EndDate)
	return m
}

func (r *medicationRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}
	r.byID[m.ID] = cloneMedication(m)
	return nil
}

func (r *medicationRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return medications.ErrNotFound
	}
	r.byID[m.ID] = cloneMedication(m)
	return nil
}

func (r *medicationRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return cloneMedication(m), nil
}

func (r *medicationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.RecipientID == recipientID {
			out = append(out, cloneMedication(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *medicationRepo) CreateDoseLog(ctx context.Context, d medications.DoseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("dose log id required")
	}
	if _, exists := r.byID[d.MedicationID]; !exists {
		return medications.ErrNotFound
	}
	r.logs = append(r.logs, d)
	return nil
}

func (r *medicationRepo) ListDoseLogs(ctx context.Context, recipientID string) ([]medications.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.DoseLog, 0)
	for _, d := range r.logs {
		if d.RecipientID == recipientID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TakenAt.After(out[j].TakenAt) })
	return out, nil
}
