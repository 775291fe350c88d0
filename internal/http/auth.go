package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/domain"
	"task-tracker/internal/service"
)

const currentUserKey = "currentUser"

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	// length is checked in bytes by UserService.Register
	Password string `json:"password" binding:"required"`
}

// loginRequest accepts the OAuth2 password form (username/password) or JSON.
type loginRequest struct {
	Email    string `form:"username" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type MeResponse struct {
	UserResponse
	TokenResponse
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID.String(), Email: user.Email}
}

func bearer(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect email or password"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bearer(token))
}

// me returns the current user together with a freshly issued token.
func (h *Handler) me(c *gin.Context) {
	user := currentUser(c)

	token, err := h.users.IssueToken(user)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		UserResponse:  userToResponse(user),
		TokenResponse: bearer(token),
	})
}

// requireUser resolves the bearer token once per request and stores the user
// in the gin context. Every rejection looks the same to the client.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		user, err := h.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(currentUserKey).(*domain.User)
}
