// package repositories provides the local persistence layer for the CLI.
//
// The browser widget keeps its credentials in cookies; CLI and TUI sessions
// have no cookie jar, so the credential pair lives in a small SQLite table
// with the same independent-expiry semantics.
package repositories

import (
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hexthorne/airwave/internal/session"
	"github.com/hexthorne/airwave/internal/shared"
)

// Credential entry names, mirroring the cookie names on the HTTP path.
const (
	accessTokenKey  = "spotify_access_token"
	refreshTokenKey = "spotify_refresh_token"
)

// CredentialRepository implements [session.CredentialStore] over SQLite.
//
// The store contract has no error returns: absence is a valid state, so
// database failures are logged and degrade to absence.
type CredentialRepository struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// NewCredentialRepository creates a repository on an open database.
// [shared.RunMigrations] must have been run against it.
func NewCredentialRepository(db *sql.DB, logger *log.Logger) *CredentialRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CredentialRepository{db: db, logger: logger, now: time.Now}
}

// Get returns the current pair, treating expired entries as absent.
func (r *CredentialRepository) Get() session.CredentialPair {
	return session.CredentialPair{
		AccessToken:  r.get(accessTokenKey),
		RefreshToken: r.get(refreshTokenKey),
	}
}

// Set persists both entries with their standard validity windows.
func (r *CredentialRepository) Set(pair session.CredentialPair) {
	r.set(accessTokenKey, pair.AccessToken, session.AccessTokenTTL)
	r.set(refreshTokenKey, pair.RefreshToken, session.RefreshTokenTTL)
}

// SetAccess persists a new access credential, leaving the refresh entry untouched.
func (r *CredentialRepository) SetAccess(token string) {
	r.set(accessTokenKey, token, session.AccessTokenTTL)
}

// Clear writes both entries with zero validity so they read as absent.
func (r *CredentialRepository) Clear() {
	r.set(accessTokenKey, "", 0)
	r.set(refreshTokenKey, "", 0)
}

func (r *CredentialRepository) get(name string) string {
	var value string
	var expiresAt time.Time

	err := r.db.QueryRow("SELECT value, expires_at FROM credentials WHERE name = ?", name).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		r.logger.Warn("failed to read credential", "name", name, "error", err)
		return ""
	}

	if !r.now().Before(expiresAt) {
		return ""
	}

	return value
}

func (r *CredentialRepository) set(name, value string, ttl time.Duration) {
	expiresAt := r.now().Add(ttl)

	_, err := r.db.Exec(`
		INSERT INTO credentials (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, name, value, expiresAt)
	if err != nil {
		r.logger.Warn("failed to write credential", "name", name, "error", err)
	}
}
