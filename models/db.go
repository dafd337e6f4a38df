package models

import (
	"database/sql"
	"strconv"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so model functions can run
// inside or outside a transaction.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ListMeta is the pagination envelope attached to every list response.
type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewListMeta(total, page, limit int) ListMeta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return ListMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// Page clamps pagination inputs to sane values.
type Page struct {
	Number int
	Limit  int
}

func NewPage(number, limit, defaultLimit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func itoa(n int) string { return strconv.Itoa(n) }

// prefixColumns qualifies a comma-separated column list with a table alias
// so shared column constants work in joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}
