package pesu

import (
	"errors"
	"fmt"
)

var (
	InvalidCredentials = errors.New("Incorrect username or password.")
	MissingCsrf        = errors.New("could not find a csrf token on the landing page")
	NetworkFailure     = errors.New("could not reach the portal")

	FeatureNotFound = errors.New("feature is not present in the profile menu")

	// the portal served its login page where data was expected, the
	// only recovery is logging in again from scratch
	SessionExpired = errors.New("portal session expired")
)

type AuthError struct {
	Kind  error
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth: %s: %s", e.Kind.Error(), e.Cause.Error())
	}
	return fmt.Sprintf("auth: %s", e.Kind.Error())
}

func (e *AuthError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

type MenuResolutionError struct {
	Keyword string
}

func (e *MenuResolutionError) Error() string {
	return fmt.Sprintf("menu: %s: %q", FeatureNotFound.Error(), e.Keyword)
}

func (e *MenuResolutionError) Unwrap() error {
	return FeatureNotFound
}

type NavigationError struct {
	Stage Stage
	Cause error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %s", e.Stage, e.Cause.Error())
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

func navigationError(stage Stage, cause error) error {
	return &NavigationError{Stage: stage, Cause: cause}
}
