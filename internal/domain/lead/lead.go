package lead

// Record is one parsed row of uploaded contact data. It is a value: created
// once by the parser, never mutated afterwards.
type Record struct {
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// Valid reports whether the record carries both required fields.
func (r Record) Valid() bool {
	return r.FirstName != "" && r.Phone != ""
}
