package birthdays

import (
	"context"
	"errors"

	"github.com/tartampluch/go-birthday-web/internal/birthdate"
)

// Draft is a record awaiting creation, typically decoded from a vCard.
type Draft struct {
	Name      string
	Birthdate string
}

// ImportResult counts what happened to each draft.
type ImportResult struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Import creates every draft whose name is not yet used by userID.
// Invalid drafts are counted, not fatal; a storage error aborts the import.
func (s *Service) Import(ctx context.Context, userID string, drafts []Draft) (ImportResult, error) {
	var res ImportResult
	for _, d := range drafts {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		_, err := s.Create(ctx, userID, d.Name, d.Birthdate)
		var pe *birthdate.ParseError
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, ErrNameTaken):
			res.Duplicates++
		case errors.As(err, &pe), errors.Is(err, ErrNameRequired), errors.Is(err, ErrNameTooLong):
			res.Invalid++
		default:
			return res, err
		}
	}
	return res, nil
}
