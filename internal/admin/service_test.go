package admin

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo map[string]models.AdminCredential

func (f fakeRepo) Credential(_ context.Context, username string) (models.AdminCredential, error) {
	if c, ok := f[username]; ok {
		return c, nil
	}
	return models.AdminCredential{}, apperr.ErrNotFound
}

func newService(t *testing.T) *Service {
	t.Helper()
	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)
	return NewService(fakeRepo{"admin": {ID: 1, Username: "admin", PasswordHash: hash}}, zerolog.Nop())
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Authenticate(ctx, "admin", "admin123"))
	assert.ErrorIs(t, svc.Authenticate(ctx, "admin", "mauvais"), apperr.ErrAuth)
}

func TestAuthenticateUnknownUserLooksLikeWrongPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	errUser := svc.Authenticate(ctx, "root", "admin123")
	errPass := svc.Authenticate(ctx, "admin", "x")

	assert.ErrorIs(t, errUser, apperr.ErrAuth)
	assert.Equal(t, errPass.Error(), errUser.Error())
}

func TestAuthenticateEmptyInput(t *testing.T) {
	svc := newService(t)

	assert.ErrorIs(t, svc.Authenticate(context.Background(), "  ", "admin123"), apperr.ErrAuth)
	assert.ErrorIs(t, svc.Authenticate(context.Background(), "admin", ""), apperr.ErrAuth)
}

func TestAuthenticatePlaintextRowIsRejected(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(fakeRepo{"admin": {Username: "admin", PasswordHash: "admin123"}}, zerolog.New(&buf))

	assert.ErrorIs(t, svc.Authenticate(context.Background(), "admin", "admin123"), apperr.ErrAuth)
	assert.Contains(t, buf.String(), "non argon2id")
}

type brokenRepo struct{}

func (brokenRepo) Credential(context.Context, string) (models.AdminCredential, error) {
	return models.AdminCredential{}, errors.New("base indisponible")
}

func TestAuthenticateStorageFailureIsNotAuthFailure(t *testing.T) {
	svc := NewService(brokenRepo{}, zerolog.Nop())

	err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrAuth))
}

func TestMySQLCredential(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMySQLRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(credentialSQL)).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(int64(1), "admin", "$argon2id$..."))
	mock.ExpectQuery(regexp.QuoteMeta(credentialSQL)).
		WithArgs("root").
		WillReturnError(sql.ErrNoRows)

	c, err := repo.Credential(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Username)

	_, err = repo.Credential(context.Background(), "root")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
