package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/frontdoor/internal/domain"
)

// accountSchema defines the account table and the record access method used
// for sign up and sign in. Passwords are hashed with argon2 by the database.
const accountSchema = `
DEFINE TABLE IF NOT EXISTS user SCHEMAFULL
	PERMISSIONS
		FOR select, update WHERE id = $auth.id
		FOR create, delete NONE;
DEFINE FIELD IF NOT EXISTS email ON user TYPE string ASSERT string::is::email($value);
DEFINE FIELD IF NOT EXISTS password ON user TYPE string;
DEFINE FIELD IF NOT EXISTS createdAt ON user TYPE datetime DEFAULT time::now();
DEFINE INDEX IF NOT EXISTS user_email ON user FIELDS email UNIQUE;

DEFINE ACCESS IF NOT EXISTS %[1]s ON DATABASE TYPE RECORD
	SIGNUP ( CREATE user SET email = $email, password = crypto::argon2::generate($password) )
	SIGNIN ( SELECT * FROM user WHERE email = $email AND crypto::argon2::compare(password, $password) )
	DURATION FOR TOKEN 1h, FOR SESSION 24h;
`

// profileSchema defines the schemaless profile collection. Users can read
// and write only the document keyed by their own account id.
const profileSchema = `
DEFINE TABLE IF NOT EXISTS %[1]s SCHEMALESS
	PERMISSIONS FOR select, create, update WHERE meta::id(id) = meta::id($auth.id);
`

// EnsureSchema creates the tables, index and access method the application
// relies on. It is idempotent and runs with the root connection.
func EnsureSchema(ctx context.Context, conn *Connection, access string) error {
	statements := []string{
		fmt.Sprintf(accountSchema, access),
		fmt.Sprintf(profileSchema, domain.ProfilesCollection),
	}

	ctx, cancel := timeoutFromContext(ctx, conn.ExecuteTimeout(), ContextKeyExecuteTimeout)
	defer cancel()

	err := conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		return ExecuteAll(ctx, db, statements...)
	})
	if err != nil {
		return WrapError(err, "ensure schema")
	}
	slog.InfoContext(ctx, "Database schema ensured", "event", "db_schema_ready", "access", access)
	return nil
}
