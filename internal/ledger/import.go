package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tallybook/tally/internal/categorize"
	"github.com/tallybook/tally/internal/importer"
	"github.com/tallybook/tally/internal/model"
	"github.com/tallybook/tally/internal/store"
)

// Summary counts the outcome of one import.
type Summary struct {
	TotalFound int `json:"totalFound"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// Import parses a statement and stores every transaction the actor does not
// already have. Drafts are handled one at a time, in statement order, so a
// category assigned to an earlier draft is visible to later ones.
//
// Statements with an unrecognized extension are read as OFX.
func (s *Service) Import(ctx context.Context, actor Actor, filename string, r io.Reader) (Summary, error) {
	if r == nil {
		return Summary{}, ErrNoFile
	}
	parser := s.registry.ForFile(filename)
	if parser == nil {
		parser = s.registry.Get("ofx")
	}

	started := time.Now().UTC()
	drafts, err := parser.Parse(r)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if len(drafts) == 0 {
		return Summary{}, ErrNoTransactions
	}

	sum := Summary{TotalFound: len(drafts)}
	engine := s.engine(s.store)
	for _, d := range drafts {
		dup, err := s.importDraft(ctx, engine, actor, d)
		if err != nil {
			return sum, fmt.Errorf("importing %s: %w", d.ExternalID, err)
		}
		if dup {
			sum.Duplicates++
		} else {
			sum.Imported++
		}
	}

	run := &model.ImportRun{
		UserID:     actor.UserID,
		Filename:   filename,
		Format:     parser.Format(),
		TotalFound: sum.TotalFound,
		Imported:   sum.Imported,
		Duplicates: sum.Duplicates,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if err := s.store.CreateImportRun(ctx, run); err != nil {
		return sum, err
	}

	s.logger(ctx).Info().
		Str("user_id", actor.UserID.String()).
		Str("file", filename).
		Int("total", sum.TotalFound).
		Int("imported", sum.Imported).
		Int("duplicates", sum.Duplicates).
		Msg("statement imported")
	return sum, nil
}

// importDraft stores one draft and reports whether it was a duplicate.
func (s *Service) importDraft(ctx context.Context, engine *categorize.Engine, actor Actor, d model.Draft) (bool, error) {
	exists, err := s.store.ExternalIDExists(ctx, actor.UserID, d.ExternalID)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	// History matching must see the description as it will be stored.
	d.Description = truncate(d.Description, maxDescription)
	res, err := engine.ForImport(ctx, actor.UserID, d)
	if err != nil {
		return false, err
	}

	ext := d.ExternalID
	t := &model.Transaction{
		UserID:      actor.UserID,
		Amount:      d.Amount,
		Type:        d.Type,
		Date:        d.Date,
		Description: d.Description,
		Source:      model.SourceOFXImport,
		ExternalID:  &ext,
		CategoryID:  res.CategoryID,
	}
	err = s.store.CreateTransaction(ctx, t)
	if errors.Is(err, store.ErrDuplicate) {
		// Another import stored the same statement line first.
		return true, nil
	}
	return false, err
}

// ListImportRuns returns the actor's import history, newest first.
func (s *Service) ListImportRuns(ctx context.Context, actor Actor) ([]model.ImportRun, error) {
	return s.store.ListImportRuns(ctx, actor.UserID)
}

// Registry returns the statement parsers Import picks from by file extension.
func (s *Service) Registry() *importer.Registry {
	return s.registry
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
