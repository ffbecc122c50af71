package maintenance

import "context"

type Repo interface {
	GetWithTemplate(ctx context.Context, id int64) (*Maintenance, *Template, error)
	SaveSubmission(ctx context.Context, s *Submission) error
	FetchDue(ctx context.Context, limit int) ([]*Maintenance, []*Template, error)
}
