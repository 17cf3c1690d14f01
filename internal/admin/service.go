package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/utils"

	"github.com/rs/zerolog"
)

type Repository interface {
	Credential(ctx context.Context, username string) (models.AdminCredential, error)
}

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// Authenticate renvoie apperr.ErrAuth sans préciser si l'utilisateur ou le mot de passe est faux
func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return apperr.ErrAuth
	}

	cred, err := s.repo.Credential(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		// même coût qu'une vraie vérification pour ne pas révéler les comptes existants
		_, _ = utils.VerifyPassword(password, fakeHash())
		return apperr.ErrAuth
	}
	if err != nil {
		return fmt.Errorf("lecture identifiants: %w", err)
	}

	if !utils.IsArgon2Hash(cred.PasswordHash) {
		s.log.Error().Str("username", username).Msg("❌ Hash administrateur non argon2id, connexion refusée")
		return apperr.ErrAuth
	}

	ok, err := utils.VerifyPassword(password, cred.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("❌ Hash administrateur illisible")
		return apperr.ErrAuth
	}
	if !ok {
		return apperr.ErrAuth
	}
	return nil
}

func fakeHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("donpollo-placeholder")
	})
	return dummyHash
}
