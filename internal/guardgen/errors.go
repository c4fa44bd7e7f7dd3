// ABOUTME: Build-time failure raised when a handler cannot be guarded
// ABOUTME: Names the function and the parameter or result shape that was missing

package guardgen

import (
	"fmt"
	"go/token"
)

// Roles reported by BuildConfigError.
const (
	RoleContext = "context"
	RoleEnv     = "env"
	RoleResult  = "result"
	RoleBody    = "body"
	RoleShadow  = "shadow"
)

// BuildConfigError reports an annotated function the guard cannot be injected into.
type BuildConfigError struct {
	Pos   token.Position
	Func  string
	Role  string
	Shape string
}

func (e *BuildConfigError) Error() string {
	prefix := e.Func
	if e.Pos.IsValid() {
		prefix = e.Pos.String() + ": " + e.Func
	}

	switch e.Role {
	case RoleResult:
		return fmt.Sprintf("%s: last result must be of type %q", prefix, e.Shape)
	case RoleBody:
		return fmt.Sprintf("%s: function has no body", prefix)
	case RoleShadow:
		return fmt.Sprintf("%s: a parameter or result named %q shadows the guard function", prefix, e.Shape)
	default:
		return fmt.Sprintf("%s: couldn't find argument of type %q", prefix, e.Shape)
	}
}
