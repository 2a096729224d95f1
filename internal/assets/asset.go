// Package assets provides the remote asset-tracking API client and the
// cached lookup service in front of it.
package assets

import "time"

// Asset is a single record from the asset-tracking API. The cache treats it
// as an opaque payload; only the client and the CLI inspect its fields.
type Asset struct {
	ID         int64     `json:"id"`
	Tag        string    `json:"asset_tag"`
	Name       string    `json:"name"`
	Serial     string    `json:"serial"`
	Model      string    `json:"model"`
	Status     string    `json:"status"`
	AssignedTo string    `json:"assigned_to"`
	UpdatedAt  time.Time `json:"updated_at"`
}
