package models

import (
	"bytes"
	"encoding/json"
)

// Page is one page of a paginated list response:
//
//	{"data": [...], "current_page": 1, "last_page": 3, "next_page_url": "...", ...}
//
// A bare JSON array decodes as a single page holding every item.
type Page[T any] struct {
	Items       []T    `json:"data"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int    `json:"total"`
	PrevPageURL string `json:"prev_page_url,omitempty"`
	NextPageURL string `json:"next_page_url,omitempty"`
}

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool {
	return p.NextPageURL != "" || p.CurrentPage < p.LastPage
}

// HasPrev reports whether a preceding page exists.
func (p Page[T]) HasPrev() bool {
	return p.PrevPageURL != "" || p.CurrentPage > 1
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items, CurrentPage: 1, LastPage: 1, PerPage: len(items), Total: len(items)}
		return nil
	}

	var v pageJSON[T]
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Page[T](v)
	return nil
}

// pageJSON mirrors Page without its UnmarshalJSON method.
type pageJSON[T any] struct {
	Items       []T    `json:"data"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int    `json:"total"`
	PrevPageURL string `json:"prev_page_url,omitempty"`
	NextPageURL string `json:"next_page_url,omitempty"`
}
