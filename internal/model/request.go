package model

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"go-account-portal/pkg/apierror"
)

const birthdayLayout = "2006-01-02"

// Registration requires a full #RRGGBB value; shorthand forms and named
// colors are rejected.
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type RegisterRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	FavoriteColor string `json:"favoriteColor"`
	Nickname      string `json:"nickname"`
	Birthday      string `json:"birthday"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"firstName", strings.TrimSpace(r.FirstName)},
		{"lastName", strings.TrimSpace(r.LastName)},
		{"username", strings.TrimSpace(r.Username)},
		{"password", r.Password},
		{"favoriteColor", strings.TrimSpace(r.FavoriteColor)},
		{"nickname", strings.TrimSpace(r.Nickname)},
		{"birthday", strings.TrimSpace(r.Birthday)},
	}
	for _, item := range required {
		if item.value == "" {
			return apierror.New("BAD_REQUEST", "all fields are required", item.field, http.StatusBadRequest)
		}
	}

	if !hexColorPattern.MatchString(strings.TrimSpace(r.FavoriteColor)) {
		return apierror.New("BAD_REQUEST", "favoriteColor must be a hex color like #RRGGBB", r.FavoriteColor, http.StatusBadRequest)
	}

	if _, err := r.BirthdayDate(); err != nil {
		return apierror.New("BAD_REQUEST", "birthday must be a date in YYYY-MM-DD format", r.Birthday, http.StatusBadRequest)
	}

	return nil
}

func (r RegisterRequest) BirthdayDate() (time.Time, error) {
	return time.Parse(birthdayLayout, strings.TrimSpace(r.Birthday))
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return apierror.New("BAD_REQUEST", "username and password are required", "", http.StatusBadRequest)
	}
	return nil
}
