// internal/httpserver/auth.go
//
// Player identity for the HTTP surface.
//   - POST /auth/signup, /auth/login, /auth/logout; GET /auth/me.
//   - HS256 JWT in a cookie (or Authorization: Bearer), bcrypt password hashes.
//   - Optional auth for game routes: a valid token adds the user to the context,
//     guests are identified by an anonymous cookie instead.
//   - GET /stats/me for either kind of player.

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var errUsernameTaken = errors.New("username taken")

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userFrom(r.Context()))
	})

	s.r.With(s.withOptionalAuth()).Get("/stats/me", s.handleMyStats)
}

// handleSignup creates a new user, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	if errors.Is(err, errUsernameTaken) {
		writeError(w, http.StatusConflict, "username_taken")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates a user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cfg.CookieName, "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMyStats returns the caller's stats (user or anonymous player).
func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	pid := s.playerID(w, r)
	st, err := s.stats.Get(r.Context(), pid)
	if err != nil {
		log.Error().Err(err).Str("player", pid).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playerId":      pid,
		"gamesPlayed":   st.GamesPlayed,
		"gamesWon":      st.GamesWon,
		"currentStreak": st.CurrentStreak,
		"maxStreak":     st.MaxStreak,
		"winPercentage": st.WinPercentage(),
		"distribution":  st.Distribution,
	})
}

func (s *Server) issueToken(w http.ResponseWriter, u *userRow) bool {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		log.Error().Err(err).Msg("sign jwt")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setCookie(w, s.cfg.CookieName, tok, exp, 0)
	return true
}

// --------------------------- auth middleware -------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := s.userFromToken(r); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := s.userFromToken(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// userFromToken validates the bearer/cookie token and checks the user still exists.
func (s *Server) userFromToken(r *http.Request) *authUser {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil
	}
	u, err := s.findUserByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return &authUser{ID: u.ID, Username: u.Username}
}

const (
	anonCookieName = "hardle_anon"
	// anonPrefix keeps guest player IDs apart from user IDs (genID never emits ':').
	anonPrefix = "anon:"
)

// playerID identifies the caller: the user ID when authenticated, otherwise
// "anon:" + an anonymous cookie ID (issued on first use).
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if u := userFrom(r.Context()); u != nil {
		return u.ID
	}
	return s.ensureAnonID(w, r)
}

// ownsSession reports whether the caller may act on a game owned by owner.
// A guest who later logs in keeps access to games started under the anon cookie.
func (s *Server) ownsSession(r *http.Request, owner string) bool {
	if u := userFrom(r.Context()); u != nil && u.ID == owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && anonPrefix+c.Value == owner
}

// ensureAnonID returns the guest player ID from the anon cookie, setting a
// new cookie if there is none.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return anonPrefix + c.Value
	}
	id := genID()
	s.setCookie(w, anonCookieName, id, time.Now().Add(180*24*time.Hour), 0)
	// Make the new ID visible to ownership checks later in this request.
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return anonPrefix + id
}

// ------------------------ users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// createUser validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &userRow{ID: genID(), Username: username, PasswordHash: string(h), CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`, username))
}

func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id))
}

func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8-72 chars")
	}
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username expiring after JWTExpiresDays.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// setCookie writes an HttpOnly cookie; maxAge < 0 deletes it.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for cross-site contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}
