package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")

// User is a supporting entity: created once, never updated or deleted.
// The password is stored as an opaque string at this layer; hashing is the
// responsibility of whoever hands it in.
type User struct {
	ID       int64  `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Password string `json:"-" bson:"password"`
}

// InsertUser carries the fields for a new user. Username uniqueness is
// enforced by lookup-before-create convention, not by the store.
type InsertUser struct {
	Username string
	Password string
}
