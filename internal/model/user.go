package model

import "time"

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"password_hash"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	FavoriteColor string    `json:"favorite_color"`
	Nickname      string    `json:"nickname"`
	Birthday      time.Time `json:"birthday"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AuthUser is the identity snapshot minted into tokens and returned from
// login. Display fields are copied in at mint time and never re-fetched for
// the lifetime of the token.
type AuthUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthClaims is the decoded payload of a verified session token.
type AuthClaims struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Profile is the full account view served by GET /api/user.
type Profile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	FavoriteColor string `json:"favoriteColor"`
	Nickname      string `json:"nickname"`
	Birthday      string `json:"birthday"`
}
