package domain

// BranchContext identifies the branch and operator a request acts for.
// It is passed explicitly with every posting and reversal.
type BranchContext struct {
	BranchID         string
	BranchCode       string
	ExternalBranchID string
	UserID           string
	RequestID        string
}

// Actor returns the user recorded in audit logs.
func (b BranchContext) Actor() string {
	if b.UserID == "" {
		return "system"
	}

	return b.UserID
}

// Branch is a row of the branch directory.
type Branch struct {
	ID     string
	Code   string
	Name   string
	ZoneID string
}
