// Package model defines the persisted resource types: users, tours,
// reviews, and bookings.
//
// Struct fields carry `db` tags matching column names so rows scan
// generically via pgx's struct mapping, and `json` tags shaping the API
// representation. Credential material is never serialized.
package model
