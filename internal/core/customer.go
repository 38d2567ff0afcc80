package core

// Customer is the identity record behind one or more accounts. TaxID is the
// unique 11-digit identifier; uniqueness and format are enforced by the
// directory, not here.
type Customer struct {
	TaxID     string
	Name      string
	BirthDate string
	Address   string
}
