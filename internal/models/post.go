package models

import "time"

type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Caption   string    `db:"caption" json:"caption"`
	Location  string    `db:"location" json:"location"`
	Likes     int       `db:"likes" json:"likes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
