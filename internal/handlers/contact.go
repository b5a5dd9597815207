package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gulf-float-booking/internal/models"
	"gulf-float-booking/internal/services"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	repo     services.ContactRepository
	validate *validator.Validate
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(repo services.ContactRepository, validate *validator.Validate) *ContactHandler {
	return &ContactHandler{
		repo:     repo,
		validate: validate,
	}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit stores a contact form message.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.Create(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
