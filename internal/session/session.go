package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// New creates a session manager backed by the application database. The
// driver must match the store that owns db: "sqlite" or "postgres". The
// sessions table is provisioned by the store migrations.
func New(db *sql.DB, driver string, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if driver == "postgres" {
		sm.Store = postgresstore.New(db)
	} else {
		sm.Store = sqlite3store.New(db)
	}

	// Configure session
	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
