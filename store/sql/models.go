package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

// keyringEntryRecord is one keyring entry for one named profile. The value
// column stores the raw secret string exactly as the keyring snapshots it;
// the core keyring re-decodes the access-token entry on load.
type keyringEntryRecord struct {
	bun.BaseModel `bun:"table:telematics_keyring_entries,alias:tke"`

	ID        string    `bun:"id,pk"`
	Profile   string    `bun:"profile,notnull"`
	Key       string    `bun:"key,notnull"`
	Value     string    `bun:"value,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
