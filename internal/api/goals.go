package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/model"
)

type createGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
	Color        string          `json:"color"`
}

type updateGoalRequest struct {
	Name         *string          `json:"name"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	Deadline     json.RawMessage  `json:"deadline"`
	Color        *string          `json:"color"`
}

// goalResponse adds the computed progress to a goal.
type goalResponse struct {
	model.Goal
	Progress decimal.Decimal `json:"progress"`
}

func newGoalResponse(g *model.Goal) goalResponse {
	return goalResponse{Goal: *g, Progress: g.Progress().Round(4)}
}

func (s *Server) createGoal(c *fiber.Ctx) error {
	var req createGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	deadline, err := parseOptionalDate("deadline", req.Deadline)
	if err != nil {
		return err
	}
	g, err := s.svc.CreateGoal(c.UserContext(), actorFrom(c), ledger.GoalParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
		Color:        req.Color,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newGoalResponse(g))
}

func (s *Server) listGoals(c *fiber.Ctx) error {
	goals, err := s.svc.ListGoals(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	out := make([]goalResponse, len(goals))
	for i := range goals {
		out[i] = newGoalResponse(&goals[i])
	}
	return c.JSON(out)
}

func (s *Server) getGoal(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	g, err := s.svc.GetGoal(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(newGoalResponse(g))
}

func (s *Server) updateGoal(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	u := ledger.GoalUpdate{Name: req.Name, TargetAmount: req.TargetAmount, Color: req.Color}
	switch string(req.Deadline) {
	case "":
	case "null", `""`:
		u.ClearDeadline = true
	default:
		var str string
		if err := json.Unmarshal(req.Deadline, &str); err != nil {
			return badRequest("deadline: expected date string or null")
		}
		d, err := parseDate("deadline", str)
		if err != nil {
			return err
		}
		u.Deadline = &d
	}

	g, err := s.svc.UpdateGoal(c.UserContext(), actorFrom(c), id, u)
	if err != nil {
		return err
	}
	return c.JSON(newGoalResponse(g))
}

func (s *Server) deleteGoal(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteGoal(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) reconcileGoal(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	res, err := s.svc.ReconcileGoal(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
