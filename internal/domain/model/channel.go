package model

// Channel is a software channel. Base channels have no parent; child channels hang off one base.
type Channel struct {
	ID       int64
	OrgID    *int64 // nil for vendor channels visible to every org
	Label    string
	Name     string
	ParentID *int64
}

func (c *Channel) IsBase() bool { return c != nil && c.ParentID == nil }

// VisibleTo reports whether members of orgID may subscribe keys to the channel.
func (c *Channel) VisibleTo(orgID int64) bool {
	if c == nil {
		return false
	}
	return c.OrgID == nil || *c.OrgID == orgID
}

// ContactMethod is the mechanism used to reach a managed system.
type ContactMethod struct {
	ID    int64
	Label string
	Name  string
}

// DefaultContactMethodLabel is assigned to newly created activation keys.
const DefaultContactMethodLabel = "default"
