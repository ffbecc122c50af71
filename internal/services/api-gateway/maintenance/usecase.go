package maintenance

import (
	"context"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/maintenance"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/domain/outbox"
	intoutbox "github.com/NordCoder/Upkeep/internal/outbox"
	"github.com/NordCoder/Upkeep/internal/repository/postgres"
)

// ValidationError carries every failure found in a submission.
type ValidationError struct {
	Failures []maintenance.Failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d invalid result(s)", len(e.Failures))
}

type Usecase struct {
	repo   maintenance.Repo
	outbox outbox.Repository
	tx     postgres.Transactor
	clock  notification.Clock
}

func NewUsecase(repo maintenance.Repo, ob outbox.Repository, tx postgres.Transactor, clock notification.Clock) *Usecase {
	return &Usecase{repo: repo, outbox: ob, tx: tx, clock: clock}
}

// Submit validates results against the maintenance template and, when they
// pass, stores them and raises inspection.completed in one transaction.
func (u *Usecase) Submit(ctx context.Context, maintenanceID, submittedBy int64, results []maintenance.Result) (*maintenance.Submission, error) {
	m, tpl, err := u.repo.GetWithTemplate(ctx, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("load maintenance %d: %w", maintenanceID, err)
	}

	if failures := maintenance.NewValidator(tpl.Tasks).Check(results); len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	sub := &maintenance.Submission{
		MaintenanceID: m.ID,
		SubmittedBy:   submittedBy,
		Results:       results,
	}
	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := u.repo.SaveSubmission(ctx, sub); err != nil {
			return err
		}
		ev, err := event.New(event.KindInspectionCompleted, event.InspectionCompleted{
			MaintenanceID: m.ID,
			SubmissionID:  sub.ID,
			Machine:       m.MachineName,
			Template:      tpl.Name,
			CompletedBy:   submittedBy,
			Tasks:         len(results),
		}, u.clock.Now())
		if err != nil {
			return err
		}
		return intoutbox.EnqueueEvent(ctx, u.outbox, ev)
	})
	if err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	return sub, nil
}
