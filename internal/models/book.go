package models

import "time"

type Book struct {
	ID        int64     `db:"id" json:"id"`
	BookName  string    `db:"book_name" json:"bookName"`
	Author    string    `db:"author" json:"author"`
	ISBN      string    `db:"isbn" json:"isbn"`
	Owner     *int64    `db:"owner" json:"owner,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
