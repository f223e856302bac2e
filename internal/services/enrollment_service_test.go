package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/events"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEnrollmentStore struct {
	mu          sync.Mutex
	enrollments map[uuid.UUID]*models.Enrollment
	runs        *fakeRunStore
}

func newFakeEnrollmentStore(runs *fakeRunStore) *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: map[uuid.UUID]*models.Enrollment{}, runs: runs}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	cp := *e
	f.enrollments[e.ID] = &cp
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentStore) Exists(_ context.Context, studentID, courseRunID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.CourseRunID == courseRunID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentStore) List(_ context.Context, _ repositories.EnrollmentFilter) ([]models.Enrollment, error) {
	return nil, nil
}

func (f *fakeEnrollmentStore) Update(_ context.Context, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.enrollments[e.ID] = &cp
	return nil
}

func (f *fakeEnrollmentStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollments[id].Status = status
	return nil
}

// ConfirmSeat mirrors the conditional-increment semantics of the SQL version:
// the seat is granted only while the counter is below capacity, under one lock.
func (f *fakeEnrollmentStore) ConfirmSeat(_ context.Context, enrollmentID, courseRunID uuid.UUID, confirmedAt *time.Time) error {
	if !f.runs.takeSeat(courseRunID) {
		return errs.ConcurrencyConflict("course run is at capacity")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.enrollments[enrollmentID]
	e.Status = models.EnrollmentStatusConfirmed
	if e.ConfirmedAt == nil {
		e.ConfirmedAt = confirmedAt
	}
	return nil
}

func (f *fakeEnrollmentStore) ReleaseSeat(_ context.Context, enrollmentID, courseRunID uuid.UUID, status string, cancelledAt *time.Time, reason *string) error {
	f.runs.releaseSeat(courseRunID)
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.enrollments[enrollmentID]
	e.Status = status
	if e.CancelledAt == nil {
		e.CancelledAt = cancelledAt
	}
	if reason != nil {
		e.CancellationReason = reason
	}
	return nil
}

func (f *fakeEnrollmentStore) SetCancelled(_ context.Context, id uuid.UUID, status string, cancelledAt *time.Time, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.enrollments[id]
	e.Status = status
	if e.CancelledAt == nil {
		e.CancelledAt = cancelledAt
	}
	if reason != nil {
		e.CancellationReason = reason
	}
	return nil
}

func (f *fakeEnrollmentStore) SetCompleted(_ context.Context, id uuid.UUID, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.enrollments[id]
	e.Status = models.EnrollmentStatusCompleted
	if e.CompletedAt == nil {
		e.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.enrollments, id)
	return nil
}

type fakeRunStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.CourseRun
}

func (f *fakeRunStore) GetByID(_ context.Context, id uuid.UUID) (*models.CourseRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *run
	return &cp, nil
}

func (f *fakeRunStore) takeSeat(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	run := f.runs[id]
	if run.CurrentEnrollments >= run.MaxStudents {
		return false
	}
	run.CurrentEnrollments++
	return true
}

func (f *fakeRunStore) releaseSeat(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run := f.runs[id]
	if run.CurrentEnrollments > 0 {
		run.CurrentEnrollments--
	}
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (f *fakeAudit) Log(_ context.Context, entry models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func newTestEnrollmentService(runs *fakeRunStore) (*EnrollmentService, *fakeEnrollmentStore, *fakeAudit, *fakePublisher) {
	store := newFakeEnrollmentStore(runs)
	audit := &fakeAudit{}
	pub := &fakePublisher{}
	svc := NewEnrollmentService(store, runs, audit, pub, zap.NewNop())
	return svc, store, audit, pub
}

func openRun(max int) *models.CourseRun {
	return &models.CourseRun{
		ID:          uuid.New(),
		CourseID:    uuid.New(),
		StartDate:   time.Now().AddDate(0, 1, 0),
		EndDate:     time.Now().AddDate(0, 4, 0),
		MaxStudents: max,
		MinStudents: 1,
		Status:      models.CourseRunStatusEnrollmentOpen,
	}
}

func gestor() models.Actor {
	return models.Actor{ID: uuid.New(), Role: rbac.RoleGestor}
}

func TestEnrollmentCreate(t *testing.T) {
	run := openRun(2)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, audit, pub := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))

	assert.Equal(t, models.EnrollmentStatusPending, e.Status)
	assert.Equal(t, models.PaymentStatusPending, e.PaymentStatus)
	require.NotNil(t, e.EnrolledAt)
	require.NotNil(t, e.CreatedBy)
	assert.Equal(t, actor.ID, *e.CreatedBy)
	assert.Len(t, audit.entries, 1)
	assert.Len(t, pub.events, 1)
	assert.Equal(t, events.EventEnrollmentCreated, pub.events[0].Type)
}

func TestEnrollmentCreateWaitlistsWhenFull(t *testing.T) {
	run := openRun(1)
	run.CurrentEnrollments = 1
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, pub := newTestEnrollmentService(runs)

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), gestor(), e))

	assert.Equal(t, models.EnrollmentStatusWaitlisted, e.Status)
	assert.Equal(t, events.EventEnrollmentWaitlisted, pub.events[0].Type)
}

func TestEnrollmentCreateRejectsClosedRun(t *testing.T) {
	run := openRun(10)
	run.Status = models.CourseRunStatusEnrollmentClosed
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	err := svc.Create(context.Background(), gestor(), e)

	var inv *errs.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "enrollment_not_open", inv.Rule)
}

func TestEnrollmentCreateRejectsPastDeadline(t *testing.T) {
	run := openRun(10)
	deadline := time.Now().Add(-time.Hour)
	run.EnrollmentDeadline = &deadline
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	err := svc.Create(context.Background(), gestor(), e)

	var inv *errs.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "enrollment_deadline_passed", inv.Rule)
}

func TestEnrollmentCreateRejectsDuplicate(t *testing.T) {
	run := openRun(10)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	student := uuid.New()

	first := &models.Enrollment{StudentID: student, CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), gestor(), first))

	second := &models.Enrollment{StudentID: student, CourseRunID: run.ID, TotalAmount: 500}
	err := svc.Create(context.Background(), gestor(), second)

	var inv *errs.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "duplicate_enrollment", inv.Rule)
}

func TestEnrollmentCreateRejectsMissingRun(t *testing.T) {
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{}}
	svc, _, _, _ := newTestEnrollmentService(runs)

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: uuid.New(), TotalAmount: 500}
	err := svc.Create(context.Background(), gestor(), e)

	var ref *errs.ReferenceNotFoundError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "course_run_id", ref.Field)
}

func TestEnrollmentCreateDeniedForLectura(t *testing.T) {
	run := openRun(10)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	err := svc.Create(context.Background(), models.Actor{ID: uuid.New(), Role: rbac.RoleLectura}, e)

	var authErr *errs.AuthorizationError
	require.ErrorAs(t, err, &authErr)
}

func TestEnrollmentConfirmTakesSeat(t *testing.T) {
	run := openRun(5)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, pub := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))

	got, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusConfirmed, got.Status)
	assert.NotNil(t, got.ConfirmedAt)
	assert.Equal(t, 1, run.CurrentEnrollments)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, events.EventEnrollmentConfirmed, last.Type)
}

func TestEnrollmentConcurrentConfirmLastSeat(t *testing.T) {
	run := openRun(1)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	a := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	b := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, a))
	require.NoError(t, svc.Create(context.Background(), actor, b))

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.ChangeStatus(context.Background(), actor, id, models.EnrollmentStatusConfirmed, nil)
			errCh <- err
		}(id)
	}
	wg.Wait()
	close(errCh)

	var conflicts, successes int
	for err := range errCh {
		if err == nil {
			successes++
			continue
		}
		var conflict *errs.ConcurrencyConflictError
		require.True(t, errors.As(err, &conflict), "unexpected error: %v", err)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, run.CurrentEnrollments)
}

func TestEnrollmentCancelReleasesSeat(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))
	_, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusConfirmed, nil)
	require.NoError(t, err)
	require.Equal(t, 1, run.CurrentEnrollments)

	reason := "student request"
	got, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusCancelled, &reason)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, 0, run.CurrentEnrollments)
}

func TestEnrollmentCancelPendingHoldsNoSeat(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))

	_, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, run.CurrentEnrollments)
}

func TestEnrollmentCompleteKeepsSeat(t *testing.T) {
	run := openRun(1)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))
	_, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusConfirmed, nil)
	require.NoError(t, err)
	require.Equal(t, 1, run.CurrentEnrollments)

	_, err = svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, run.CurrentEnrollments)

	// A completed student still occupies the seat, so nobody else fits.
	late := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, late))
	assert.Equal(t, models.EnrollmentStatusWaitlisted, late.Status)
}

func TestEnrollmentCompletedIsTerminal(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))
	_, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusConfirmed, nil)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusCompleted, nil)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusCancelled, nil)
	var inv *errs.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "enrollment_status", inv.Rule)
}

func TestEnrollmentUpdateDerivesPaymentStatus(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))

	paid := 200.0
	got, err := svc.Update(context.Background(), actor, e.ID, EnrollmentUpdateInput{AmountPaid: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, got.PaymentStatus)

	paid = 500.0
	got, err = svc.Update(context.Background(), actor, e.ID, EnrollmentUpdateInput{AmountPaid: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
}

func TestEnrollmentUpdateRejectsOverpayment(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))

	paid := 600.0
	_, err := svc.Update(context.Background(), actor, e.ID, EnrollmentUpdateInput{AmountPaid: &paid})
	var inv *errs.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "payment", inv.Rule)
}

func TestEnrollmentRefundedSurvivesRecalc(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	actor := gestor()

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500, AmountPaid: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))

	_, err := svc.SetPaymentStatus(context.Background(), actor, e.ID, models.PaymentStatusRefunded)
	require.NoError(t, err)

	paid := 100.0
	got, err := svc.Update(context.Background(), actor, e.ID, EnrollmentUpdateInput{AmountPaid: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, got.PaymentStatus)
}

func TestEnrollmentFinancialEditDeniedForAsesor(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, _, _, _ := newTestEnrollmentService(runs)
	asesor := models.Actor{ID: uuid.New(), Role: rbac.RoleAsesor}

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), asesor, e))

	paid := 100.0
	_, err := svc.Update(context.Background(), asesor, e.ID, EnrollmentUpdateInput{AmountPaid: &paid})
	var authErr *errs.AuthorizationError
	require.ErrorAs(t, err, &authErr)

	// Notes on an owned enrollment are still allowed.
	notes := "follow up next week"
	got, err := svc.Update(context.Background(), asesor, e.ID, EnrollmentUpdateInput{Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
}

func TestEnrollmentDeleteReleasesConfirmedSeat(t *testing.T) {
	run := openRun(3)
	runs := &fakeRunStore{runs: map[uuid.UUID]*models.CourseRun{run.ID: run}}
	svc, store, _, _ := newTestEnrollmentService(runs)
	actor := models.Actor{ID: uuid.New(), Role: rbac.RoleAdmin}

	e := &models.Enrollment{StudentID: uuid.New(), CourseRunID: run.ID, TotalAmount: 500}
	require.NoError(t, svc.Create(context.Background(), actor, e))
	_, err := svc.ChangeStatus(context.Background(), actor, e.ID, models.EnrollmentStatusConfirmed, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), actor, e.ID))
	assert.Equal(t, 0, run.CurrentEnrollments)
	_, err = store.GetByID(context.Background(), e.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
