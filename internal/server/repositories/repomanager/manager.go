package repomanager

import (
	"context"
	"database/sql"

	"github.com/inkly/inkly/internal/dbx"
	"github.com/inkly/inkly/internal/server/repositories/community"
	"github.com/inkly/inkly/internal/server/repositories/inks"
	"github.com/inkly/inkly/internal/server/repositories/notifications"
	"github.com/inkly/inkly/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so a service can
// run the same repositories on *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	NotificationSettings(db dbx.DBTX) notifications.Repository
	CommunityPreferences(db dbx.DBTX) community.Repository
	Inks(db dbx.DBTX) inks.Repository
}
