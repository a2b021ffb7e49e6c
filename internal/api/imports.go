package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/model"
)

func (s *Server) importStatement(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return ledger.ErrNoFile
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	sum, err := s.svc.Import(c.UserContext(), actorFrom(c), fh.Filename, f)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Imported %d of %d transactions", sum.Imported, sum.TotalFound),
		"summary": sum,
	})
}

func (s *Server) listImports(c *fiber.Ctx) error {
	runs, err := s.svc.ListImportRuns(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []model.ImportRun{}
	}
	return c.JSON(runs)
}

func (s *Server) exportLedger(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := actorFrom(c)

	txs, err := s.svc.ListTransactions(ctx, actor, ledger.ListParams{})
	if err != nil {
		return err
	}
	cats, err := s.svc.ListCategories(ctx, "")
	if err != nil {
		return err
	}
	goals, err := s.svc.ListGoals(ctx, actor)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteTransactions(&buf, txs, export.NewNames(cats, goals)); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ledger-%s.csv"`, time.Now().UTC().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}
