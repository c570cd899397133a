package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/askanna-io/askanna-cli/internal/utils"
)

var ErrUnauthorized = errors.New("token is not valid")

type User struct {
	SUUID string `json:"suuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Me returns the account behind the client's token.
func Me(ctx context.Context, client utils.HTTPDoer, routes Routes) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, routes.Me(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error contacting AskAnna: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("error decoding user: %v", err)
	}
	return &user, nil
}
