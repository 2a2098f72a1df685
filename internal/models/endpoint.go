package models

// FieldType enumerates the declared types a schema field may have.
const (
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeImage  = "image"
)

// ValidFieldType reports whether t is a declared field type.
func ValidFieldType(t string) bool {
	return t == FieldTypeText || t == FieldTypeNumber || t == FieldTypeImage
}

// Field is one typed field of an endpoint schema.
type Field struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	Multiline bool   `json:"multiline"`
}

// EndpointPatch is a partial update: nil means "leave unchanged".
type EndpointPatch struct {
	Title  *string
	Fields []Field
}

// Endpoint is a user-defined record schema. Items reference it by ID;
// timestamps are ISO-8601 strings on the wire (empty when absent).
type Endpoint struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Fields    []Field `json:"fields"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}
