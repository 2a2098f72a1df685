package models

// Item is a record belonging to an endpoint. Data is an open key→value
// mapping keyed by field title; values are not checked against the owning
// endpoint's schema at read time.
type Item struct {
	ID         string         `json:"id"`
	EndpointID string         `json:"endpointId"`
	Data       map[string]any `json:"data"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}
