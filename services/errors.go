package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/volley-planner/repositories"
)

// Общие ошибки сервисного слоя, используются и при маппинге HTTP.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrPlanningNotFound = errors.New("planning not found for tournament")
	ErrValidationFailed = errors.New("validation failed")
	ErrUpstreamFailure  = errors.New("upstream service failure")

	// Резолвинг email -> user id
	ErrUserNotFound        = errors.New("user not found")
	ErrUserLookupExhausted = errors.New("could not resolve user after multiple attempts")
	ErrMemberEmailMissing  = errors.New("member has no email")
	ErrIncompleteRoster    = errors.New("some team members could not be resolved")
	ErrMembersNotAdded     = errors.New("team created but members could not be added")

	ErrExportUnavailable = errors.New("planning export storage is not configured")
	ErrExportFailed      = errors.New("failed to export planning")
)

// ValidationErrors maps an input field to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field, msg := range v {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%v: %s", ErrValidationFailed, strings.Join(fields, "; "))
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// IncompleteRosterError lists who could not be resolved when the caller asked
// for a complete roster.
type IncompleteRosterError struct {
	CaptainEmail string
	CaptainErr   error
	Unresolved   []UnresolvedMember
}

func (e *IncompleteRosterError) Error() string {
	n := len(e.Unresolved)
	if e.CaptainErr != nil {
		n++
	}
	return fmt.Sprintf("%v: %d unresolved", ErrIncompleteRoster, n)
}

func (e *IncompleteRosterError) Unwrap() error {
	return ErrIncompleteRoster
}

// upstreamError translates a repository error into the service vocabulary.
func upstreamError(op string, err error, notFound error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s: %w", notFound, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUpstreamFailure, op, err)
	}
}
