package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Dosada05/volley-planner/models"
)

// The BDD service signals a just-dispatched invitation only through its
// human-readable message. This is the single place that text is inspected.
var invitationNotices = []string{
	"invitation envoyée",
	"invitation envoyee",
	"invitation sent",
}

type UserRepository interface {
	// LookupByEmail returns a tagged result. Transport failures, any non-2xx
	// status (404 included) and unexpected payloads are returned as errors.
	LookupByEmail(ctx context.Context, email string) (models.UserLookup, error)
}

type httpUserRepository struct {
	api *apiClient
}

func NewHTTPUserRepository(baseURL string, httpClient *http.Client) UserRepository {
	return &httpUserRepository{api: newAPIClient(baseURL, httpClient)}
}

func (r *httpUserRepository) LookupByEmail(ctx context.Context, email string) (models.UserLookup, error) {
	env, err := r.api.do(ctx, http.MethodGet, "/users/", url.Values{"email": {email}}, nil)
	if err != nil {
		return models.UserLookup{}, err
	}

	if !env.hasData() {
		if isInvitationNotice(env.Message) {
			return models.UserLookup{Status: models.LookupPending}, nil
		}
		return models.UserLookup{Status: models.LookupNotFound}, nil
	}

	var user models.User
	if err := decodeData(env, &user); err != nil {
		return models.UserLookup{}, err
	}
	if user.ID == "" {
		return models.UserLookup{}, fmt.Errorf("%w: user record for %s has no id", ErrMalformedResponse, email)
	}
	return models.UserLookup{Status: models.LookupFound, User: &user}, nil
}

func isInvitationNotice(message string) bool {
	msg := strings.ToLower(message)
	for _, notice := range invitationNotices {
		if strings.Contains(msg, notice) {
			return true
		}
	}
	return false
}
