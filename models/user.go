package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) FullName() string {
	if u == nil {
		return "Someone"
	}
	name := u.FirstName + " " + u.LastName
	if name == " " {
		return u.Email
	}
	return name
}

func GetUser(db DBTX, userID string) (*User, error) {
	var u User
	err := db.QueryRow(`
		SELECT id, email, first_name, last_name, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByEmail(db DBTX, email string) (*User, error) {
	var u User
	err := db.QueryRow(`
		SELECT id, email, first_name, last_name, created_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func ListUsers(db DBTX, page Page) ([]User, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT id, email, first_name, last_name, created_at
		FROM users
		ORDER BY created_at ASC
		OFFSET $1 LIMIT $2
	`, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
