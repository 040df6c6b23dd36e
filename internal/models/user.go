package models

// Account is a registered user's stored credentials. Email is the key.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
}

// Account rows are laid out as [username, passwordHash, email].
const (
	AccountUsernameColumn = iota
	AccountPasswordHashColumn
	AccountEmailColumn
	AccountColumns
)

// ToRow returns the account's cells in column order.
func (a Account) ToRow() []string {
	return []string{a.Username, a.PasswordHash, a.Email}
}

// AccountFromRow maps a stored row back to an Account. Missing trailing cells stay empty.
func AccountFromRow(row []string) Account {
	return Account{
		Username:     cell(row, AccountUsernameColumn),
		PasswordHash: cell(row, AccountPasswordHashColumn),
		Email:        cell(row, AccountEmailColumn),
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
