package repomanager

import (
	"context"
	"database/sql"

	"github.com/estermelatii/wishkeeper/internal/dbx"
	"github.com/estermelatii/wishkeeper/internal/server/repositories/authtokens"
	"github.com/estermelatii/wishkeeper/internal/server/repositories/items"
	"github.com/estermelatii/wishkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX handle, so services
// can run the same repository code inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	AuthTokens(db dbx.DBTX) authtokens.Repository
	Items(db dbx.DBTX) items.Repository
}
