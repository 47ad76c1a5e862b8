package enums

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountDeleted:
		return true
	}
	return false
}
