package registrations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jornageo/registration/pkg/response"
)

// Handler serves the registration form endpoint on any path.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Dispatch routes by method: POST registers, GET lists, anything else is 405.
// OPTIONS never reaches here; the CORS middleware answers it.
func (h *Handler) Dispatch(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost:
		h.Register(c)
	case http.MethodGet:
		h.List(c)
	default:
		response.MethodNotAllowed(c, "Method not allowed")
	}
}

// Register handles POST. Returns the new registration_id.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		var fe *FieldError
		switch {
		case errors.As(err, &fe):
			response.BadRequest(c, fe.Error())
		case errors.Is(err, ErrInvalidEmail):
			response.BadRequest(c, ErrInvalidEmail.Error())
		case errors.Is(err, ErrDuplicate):
			response.Conflict(c, ErrDuplicate.Error())
		default:
			h.logger.Error("registration failed", zap.Error(err))
			response.Internal(c, "Registration failed")
		}
		return
	}

	response.OK(c, gin.H{
		"message":         "Registration successful",
		"registration_id": res.Registration.RegistrationID,
	})
}

// List handles GET. The whole table is returned as one result set.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "Failed to retrieve registrations")
		return
	}
	response.OK(c, gin.H{
		"registrations": list,
		"count":         len(list),
	})
}
