package domain

import "time"

// Snapshot describes a dataset imported into the database.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Checksum    string    `json:"checksum"`
	Experiments int       `json:"experiments"`
	Inputs      int       `json:"inputs"`
	Outputs     int       `json:"outputs"`
	ImportedAt  time.Time `json:"imported_at"`
}
