package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/service"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// UsersHandler exposes account and session endpoints under /api/users.
type UsersHandler struct {
	users    *service.UserService
	sessions *service.SessionService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, sessions *service.SessionService) *UsersHandler {
	return &UsersHandler{users: users, sessions: sessions}
}

// Register handles POST /api/users/signin.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.RegisterInput{Username: req.Username, Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": *req.Role})
		}
		input.Role = &role
	}

	actor, ok := auth.IdentityFromContext(c)
	if !ok && auth.CacheFailed(c) && input.Role != nil && input.Role.RequiresAdmin() {
		return apperrors.NewCacheUnavailable(auth.ErrCacheUnavailable)
	}
	user, err := h.users.Register(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	issued, err := h.sessions.Login(c.UserContext(), strings.TrimSpace(req.Username), req.Password, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     issued.Token,
		UserID:    issued.Identity.UserID,
		Username:  issued.Identity.Username,
		Role:      issued.Identity.Role,
		ExpiresAt: issued.ExpiresAt,
	}})
}

// Logout handles POST /api/users/logout. The token comes from the auth header
// or, failing that, the body.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	token := auth.TokenFromContext(c)
	if token == "" {
		var req dto.LogoutRequest
		if len(c.Body()) > 0 {
			_ = c.BodyParser(&req)
		}
		token = strings.TrimSpace(req.Token)
	}
	actor, _ := auth.IdentityFromContext(c)
	if err := h.sessions.Logout(c.UserContext(), token, actor); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.IdentityResponse{
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	users, total, err := h.users.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	meta.Total = total
	return c.JSON(fiber.Map{"data": items, "pagination": meta})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUsername handles POST /api/users/username.
func (h *UsersHandler) UpdateUsername(c *fiber.Ctx) error {
	var req dto.UpdateUsernameRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := auth.RequireSelfOrAdmin(c, req.UserID); err != nil {
		return err
	}
	user, err := h.users.UpdateUsername(c.UserContext(), req.UserID, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateEmail handles POST /api/users/email.
func (h *UsersHandler) UpdateEmail(c *fiber.Ctx) error {
	var req dto.UpdateEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := auth.RequireSelfOrAdmin(c, req.UserID); err != nil {
		return err
	}
	user, err := h.users.UpdateEmail(c.UserContext(), req.UserID, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdatePassword handles POST /api/users/password.
func (h *UsersHandler) UpdatePassword(c *fiber.Ctx) error {
	var req dto.UpdatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := auth.RequireSelfOrAdmin(c, req.UserID); err != nil {
		return err
	}
	user, err := h.users.UpdatePassword(c.UserContext(), req.UserID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateRole handles POST /api/users/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}
	actor, _ := auth.IdentityFromContext(c)
	user, err := h.users.UpdateRole(c.UserContext(), actor, req.UserID, role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete handles DELETE /api/users.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	if err := h.users.Delete(c.UserContext(), actor, req.UserID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
