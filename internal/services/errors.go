package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for missing records surfaced to handlers as 404s.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrContentNotFound = errors.New("content not found")
)

// AuthenticationError means no valid session where one is required.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication required: %s", e.Reason)
}

func NewAuthenticationError(reason string) *AuthenticationError {
	return &AuthenticationError{Reason: reason}
}

// AuthorizationError means the caller is authenticated but lacks the role
// or ownership for the operation. It never degrades to a partial action.
type AuthorizationError struct {
	UserID   string
	TargetID string
	Resource string
	Action   string
	Reason   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.TargetID, e.Reason)
}

func NewAuthorizationError(userID, targetID, resource, action, reason string) *AuthorizationError {
	return &AuthorizationError{
		UserID:   userID,
		TargetID: targetID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// ConflictError is a uniqueness violation that could not be recovered by
// re-resolving to the existing record.
type ConflictError struct {
	Resource string
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Detail)
}

func NewConflictError(resource, detail string) *ConflictError {
	return &ConflictError{Resource: resource, Detail: detail}
}

// StoreError wraps an underlying persistence failure. Not retried here;
// surfaced to the caller as a 500-equivalent.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func IsAuthenticationError(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsAuthorizationError(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsConflictError(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsStoreError(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}
