package models

// University owns courses; deleting one cascades to its whole course tree.
type University struct {
	ID      string  `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	City    *string `db:"city" json:"city,omitempty"`
	Country *string `db:"country" json:"country,omitempty"`
	Type    *string `db:"type" json:"type,omitempty"`
}
