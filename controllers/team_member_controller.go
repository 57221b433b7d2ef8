package controller

import (
	"github.com/gofiber/fiber/v2"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/repository"
)

type TeamMemberRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Role       string `json:"role" validate:"max=255"`
	Email      string `json:"email" validate:"omitempty,email_format"`
	Department string `json:"department" validate:"max=255"`
	Status     string `json:"status" validate:"omitempty,member_status"`
}

func (r TeamMemberRequest) apply(m *models.TeamMember) {
	m.Name = trim(r.Name)
	m.Role = trim(r.Role)
	m.Email = trim(r.Email)
	m.Department = trim(r.Department)
	m.Status = r.Status
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}
}

type TeamMemberController struct {
	Repo    repository.TeamMemberRepo
	changes changes
}

func NewTeamMemberController(repo repository.TeamMemberRepo, pub realtime.Publisher) *TeamMemberController {
	return &TeamMemberController{
		Repo:    repo,
		changes: changes{pub: pub, entity: "team_member"},
	}
}

func (tc *TeamMemberController) GetTeamMembers(c *fiber.Ctx) error {
	members, err := tc.Repo.List(c.UserContext())
	if err != nil {
		return repoError(c, "Team member", "Failed to fetch team members", err)
	}
	return c.JSON(members)
}

func (tc *TeamMemberController) GetTeamMember(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Team member")
	if !ok {
		return err
	}
	member, err := tc.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return repoError(c, "Team member", "Failed to fetch team member", err)
	}
	return c.JSON(member)
}

func (tc *TeamMemberController) CreateTeamMember(c *fiber.Ctx) error {
	var req TeamMemberRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	var member models.TeamMember
	req.apply(&member)
	if err := tc.Repo.Create(c.UserContext(), &member); err != nil {
		return repoError(c, "Team member", "Failed to create team member", err)
	}

	tc.changes.emit(realtime.ActionCreate, member.ID)
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (tc *TeamMemberController) UpdateTeamMember(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Team member")
	if !ok {
		return err
	}
	var req TeamMemberRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	member := models.TeamMember{Model: models.Model{ID: id}}
	req.apply(&member)
	if err := tc.Repo.Update(c.UserContext(), &member); err != nil {
		return repoError(c, "Team member", "Failed to update team member", err)
	}

	tc.changes.emit(realtime.ActionUpdate, id)
	return c.JSON(member)
}

func (tc *TeamMemberController) DeleteTeamMember(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "Team member")
	if !ok {
		return err
	}
	if err := tc.Repo.Delete(c.UserContext(), id); err != nil {
		return repoError(c, "Team member", "Failed to delete team member", err)
	}

	tc.changes.emit(realtime.ActionDelete, id)
	return deleted(c, "Team member")
}
