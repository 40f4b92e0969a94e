package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrAdminAccessRequired = errors.New("admin access required")
	ErrPermissionDenied    = errors.New("you don't have access to this resource")
	ErrInvalidRole         = errors.New("invalid role")
)
