package endpoints

import (
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
)

type validator interface {
	Validate() error
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required: %w", field, errs.ErrValidation)
	}
	return nil
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (l *LoginRequest) Validate() error {
	if err := required("username", l.Username); err != nil {
		return err
	}
	return required("password", l.Password)
}

// AccountRequest is the body of POST /auth/register and POST /user/create
type AccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (a *AccountRequest) Validate() error {
	if err := required("username", a.Username); err != nil {
		return err
	}
	if err := required("password", a.Password); err != nil {
		return err
	}
	_, err := model.ParseRole(a.Role)
	return err
}

// UpdateRoleRequest is the body of PUT /user/{id}/role
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (u *UpdateRoleRequest) Validate() error {
	_, err := model.ParseRole(u.Role)
	return err
}

// UploadDocumentRequest is the body of POST /document/upload
type UploadDocumentRequest struct {
	UserID  uint   `json:"userId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (u *UploadDocumentRequest) Validate() error {
	if u.UserID == 0 {
		return fmt.Errorf("userId is required: %w", errs.ErrValidation)
	}
	return required("title", u.Title)
}

// UpdateDocumentRequest is the body of PUT /document/{id}
type UpdateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (u *UpdateDocumentRequest) Validate() error {
	return required("title", u.Title)
}

// TriggerIngestionRequest is the body of POST /ingestion/trigger
type TriggerIngestionRequest struct {
	DocumentID uint `json:"documentId"`
}

func (t *TriggerIngestionRequest) Validate() error {
	if t.DocumentID == 0 {
		return fmt.Errorf("documentId is required: %w", errs.ErrValidation)
	}
	return nil
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
