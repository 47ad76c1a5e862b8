package enums

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected, ConnectionBlocked:
		return true
	}
	return false
}

// ValidInitial reports whether a new connection may be created in this
// status. Accepted and rejected only exist as receiver responses.
func (s ConnectionStatus) ValidInitial() bool {
	return s == ConnectionPending || s == ConnectionBlocked
}
