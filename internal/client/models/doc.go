// Package models defines the client-side data models of the venue booking
// marketplace: user profiles and roles, wedding halls, districts,
// reservations, paginated lists and the request payloads sent to the API.
package models
