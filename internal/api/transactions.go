package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/model"
)

type createTransactionRequest struct {
	Amount      decimal.Decimal       `json:"amount"`
	Type        model.TransactionType `json:"type"`
	Date        string                `json:"date"`
	Description string                `json:"description"`
	CategoryID  string                `json:"categoryId"`
	Category    string                `json:"category"`
	GoalID      string                `json:"goalId"`
	IsRecurring bool                  `json:"isRecurring"`
}

type updateTransactionRequest struct {
	Amount      *decimal.Decimal       `json:"amount"`
	Type        *model.TransactionType `json:"type"`
	Date        *string                `json:"date"`
	Description *string                `json:"description"`
	CategoryID  *string                `json:"categoryId"`
	Category    *string                `json:"category"`
	GoalID      json.RawMessage        `json:"goalId"`
	IsRecurring *bool                  `json:"isRecurring"`
}

func (s *Server) createTransaction(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}
	catID, err := parseOptionalID("categoryId", req.CategoryID)
	if err != nil {
		return err
	}
	goalID, err := parseOptionalID("goalId", req.GoalID)
	if err != nil {
		return err
	}

	tx, err := s.svc.CreateTransaction(c.UserContext(), actorFrom(c), ledger.CreateParams{
		Amount:       req.Amount,
		Type:         req.Type,
		Date:         date,
		Description:  req.Description,
		CategoryID:   catID,
		CategoryName: req.Category,
		GoalID:       goalID,
		IsRecurring:  req.IsRecurring,
		Source:       model.SourceClient,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (s *Server) listTransactions(c *fiber.Ctx) error {
	from, err := parseOptionalDate("from", c.Query("from"))
	if err != nil {
		return err
	}
	to, err := parseOptionalDate("to", c.Query("to"))
	if err != nil {
		return err
	}
	catID, err := parseOptionalID("categoryId", c.Query("categoryId"))
	if err != nil {
		return err
	}
	goalID, err := parseOptionalID("goalId", c.Query("goalId"))
	if err != nil {
		return err
	}

	txs, err := s.svc.ListTransactions(c.UserContext(), actorFrom(c), ledger.ListParams{
		From:       from,
		To:         to,
		Type:       model.TransactionType(c.Query("type")),
		CategoryID: catID,
		GoalID:     goalID,
		Limit:      c.QueryInt("limit", 0),
		Offset:     c.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return c.JSON(txs)
}

func (s *Server) getTransaction(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tx, err := s.svc.GetTransaction(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(tx)
}

func (s *Server) updateTransaction(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	p := ledger.UpdateParams{
		Amount:       req.Amount,
		Type:         req.Type,
		Description:  req.Description,
		CategoryName: req.Category,
		IsRecurring:  req.IsRecurring,
	}
	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			return err
		}
		p.Date = &d
	}
	if req.CategoryID != nil {
		if p.CategoryID, err = parseOptionalID("categoryId", *req.CategoryID); err != nil {
			return err
		}
	}
	goalID, present, err := nullableID("goalId", req.GoalID)
	if err != nil {
		return err
	}
	if present {
		p.Goal = &ledger.GoalChange{ID: goalID}
	}

	tx, err := s.svc.UpdateTransaction(c.UserContext(), actorFrom(c), id, p)
	if err != nil {
		return err
	}
	return c.JSON(tx)
}

func (s *Server) deleteTransaction(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteTransaction(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	cats, err := s.svc.ListCategories(c.UserContext(), model.TransactionType(c.Query("type")))
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return c.JSON(cats)
}
