package membership

import "errors"

// Sentinel errors returned to callers. Anything else coming out of the
// service is an internal database failure.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPermissionDenied = errors.New("only a household owner can do that")
	ErrInvalidInvite    = errors.New("invite code is invalid or has expired")
	ErrNotInHousehold   = errors.New("not a member of any household")
)
