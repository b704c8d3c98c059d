package models

import "database/sql"

// ImageModel is the persisted unit of binary media. ImageBytes holds the
// zlib-compressed payload at rest; it is swapped for the decompressed bytes
// only on the read path. Exactly one of UserID/PostID is set, fixing the
// owner kind at creation.
type ImageModel struct {
	ID         int64         `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	ImageBytes []byte        `db:"image_bytes" json:"imageBytes"`
	UserID     sql.NullInt64 `db:"user_id" json:"-"`
	PostID     sql.NullInt64 `db:"post_id" json:"-"`
}
