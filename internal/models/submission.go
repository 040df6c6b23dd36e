package models

// Submission is a stored form entry, keyed by email.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submission rows are laid out as [name, email, message].
const (
	SubmissionNameColumn = iota
	SubmissionEmailColumn
	SubmissionMessageColumn
	SubmissionColumns
)

// ToRow returns the submission's cells in column order.
func (s Submission) ToRow() []string {
	return []string{s.Name, s.Email, s.Message}
}
