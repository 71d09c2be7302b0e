// Package model defines the persisted entities shared by the
// repository, service and handler layers.
//
// `db` tags name the columns read with pgx.RowToStructByName and
// `json` tags define the API representation.
package model

// DeleteResponse acknowledges a successful delete.
type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
