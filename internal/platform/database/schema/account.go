package schema

// AccountTable represents the 'public.account' table
type AccountTable struct {
	Table     string
	ID        string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Type      string
}

// Account is the schema definition for public.account
var Account = AccountTable{
	Table:     "public.account",
	ID:        "account_id",
	FirstName: "account_firstname",
	LastName:  "account_lastname",
	Email:     "account_email",
	Password:  "account_password",
	Type:      "account_type",
}

// Columns returns all standard column names
func (t AccountTable) Columns() []string {
	return []string{t.ID, t.FirstName, t.LastName, t.Email, t.Password, t.Type}
}
