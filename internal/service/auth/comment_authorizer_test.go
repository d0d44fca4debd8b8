package auth

import (
	"testing"

	"launchit/internal/domain"
	"launchit/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestRoleBasedAuthorizer(t *testing.T) {
	a := NewRoleBasedAuthorizer()
	comment := &models.Comment{ID: "c1", AuthorID: "author"}

	anonymous := models.Actor{}
	author := models.Actor{ID: "author", Role: models.RoleUser}
	other := models.Actor{ID: "other", Role: models.RoleUser}
	admin := models.Actor{ID: "admin", Role: models.RoleAdmin}
	adminAuthor := models.Actor{ID: "author", Role: models.RoleAdmin}

	tests := []struct {
		name    string
		check   func() error
		wantErr error
	}{
		{"anonymous cannot comment", func() error { return a.CanComment(anonymous) }, domain.ErrUnauthorized},
		{"user can comment", func() error { return a.CanComment(other) }, nil},

		{"author can delete", func() error { return a.CanDelete(author, comment) }, nil},
		{"admin can delete", func() error { return a.CanDelete(admin, comment) }, nil},
		{"other user cannot delete", func() error { return a.CanDelete(other, comment) }, domain.ErrForbidden},
		{"anonymous cannot delete", func() error { return a.CanDelete(anonymous, comment) }, domain.ErrUnauthorized},

		{"other user can report", func() error { return a.CanReport(other, comment) }, nil},
		{"admin can report", func() error { return a.CanReport(admin, comment) }, nil},
		{"author cannot report", func() error { return a.CanReport(author, comment) }, domain.ErrForbidden},
		{"admin author cannot report", func() error { return a.CanReport(adminAuthor, comment) }, domain.ErrForbidden},
		{"anonymous cannot report", func() error { return a.CanReport(anonymous, comment) }, domain.ErrUnauthorized},

		{"admin can moderate", func() error { return a.CanModerate(admin) }, nil},
		{"user cannot moderate", func() error { return a.CanModerate(other) }, domain.ErrForbidden},
		{"anonymous cannot moderate", func() error { return a.CanModerate(anonymous) }, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRoleBasedAuthorizer_AdminRoleWithoutIDIsAnonymous(t *testing.T) {
	a := NewRoleBasedAuthorizer()
	err := a.CanDelete(models.Actor{Role: models.RoleAdmin}, &models.Comment{ID: "c1", AuthorID: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
