// Package pgx is the PostgreSQL provider adapter. It backs credentials,
// role records, and upload metadata; blobs live in object storage.
package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"caseport/core"
	"caseport/pkg/crypto"
)

type Adapter struct {
	pool      *pgxpool.Pool
	passwords crypto.PasswordHandler
}

var (
	_ core.CredentialStore = (*Adapter)(nil)
	_ core.RoleStore       = (*Adapter)(nil)
	_ core.RecordStore     = (*Adapter)(nil)
)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool:      pool,
		passwords: crypto.NewArgon2(),
	}
}
