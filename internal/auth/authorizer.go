package auth

// Action is the permission level requested for a module.
type Action string

const (
	ActionRead Action = "read"
	ActionFull Action = "full"
)

// ModuleInventory tags every permission check this service performs.
const ModuleInventory = "inventory"

// Authorizer is the external permission matrix. The account service owns the
// role/module grants; this service only asks yes/no per request.
type Authorizer interface {
	IsAuthorized(actor, module string, action Action) bool
}

// AllowAll grants everything. Used in development and in tests.
type AllowAll struct{}

func (AllowAll) IsAuthorized(string, string, Action) bool { return true }
