// Package session porte l'identifiant de panier et le drapeau admin dans un cookie signé.
package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	CookieName = "donpollo_session"
	// ContextKey est la clé gin où le middleware dépose l'identifiant de session
	ContextKey = "session_id"

	keyID        = "sid"
	keyAdmin     = "admin"
	keyAdminUser = "admin_user"
)

type Manager struct {
	store sessions.Store
}

func NewManager(secret string, maxAge int, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)
	return &Manager{store: store}
}

// NewManagerWithStore permet d'utiliser un autre sessions.Store (tests, filesystem)
func NewManagerWithStore(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// get ignore les cookies illisibles : gorilla renvoie alors une session neuve
func (m *Manager) get(c *gin.Context) *sessions.Session {
	s, _ := m.store.Get(c.Request, CookieName)
	return s
}

// Middleware garantit un identifiant de session stable pour chaque visiteur
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.get(c)
		id, _ := s.Values[keyID].(string)
		if id == "" {
			id = uuid.NewString()
			s.Values[keyID] = id
			if err := m.save(c, s); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Session indisponible"})
				return
			}
		}
		c.Set(ContextKey, id)
		c.Next()
	}
}

// ID renvoie l'identifiant posé par Middleware, vide s'il n'est pas monté
func ID(c *gin.Context) string {
	return c.GetString(ContextKey)
}

func (m *Manager) IsAdmin(c *gin.Context) bool {
	admin, _ := m.get(c).Values[keyAdmin].(bool)
	return admin
}

// AdminUser renvoie le nom de l'admin connecté, vide sinon
func (m *Manager) AdminUser(c *gin.Context) string {
	if !m.IsAdmin(c) {
		return ""
	}
	user, _ := m.get(c).Values[keyAdminUser].(string)
	return user
}

// SetAdmin lève le drapeau admin pour username ; un username vide le baisse. Le panier n'est pas touché.
func (m *Manager) SetAdmin(c *gin.Context, username string) error {
	s := m.get(c)
	if username != "" {
		s.Values[keyAdmin] = true
		s.Values[keyAdminUser] = username
	} else {
		delete(s.Values, keyAdmin)
		delete(s.Values, keyAdminUser)
	}
	return m.save(c, s)
}

// save remplace un Set-Cookie déjà posé pendant la requête : un seul cookie de session par réponse
func (m *Manager) save(c *gin.Context, s *sessions.Session) error {
	header := c.Writer.Header()
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, CookieName+"=") {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
	return s.Save(c.Request, c.Writer)
}
