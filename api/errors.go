package api

import (
	"errors"
	"fmt"
)

// Sentinel errors. Configuration errors are returned before any I/O.
var (
	ErrNoCredentials    = errors.New("api: no email/password given")
	ErrNotAuthenticated = errors.New("api: not authenticated")
	ErrForbidden        = errors.New("api: forbidden access - token invalid or unauthorised")
	ErrBadEndpoint      = errors.New("api: URL is not on an allowed endpoint")
	ErrNoRoomTypes      = errors.New("api: room types unknown - fetch them with RoomTypes first")
	ErrNotFound         = errors.New("api: not found")
	ErrNoMinimap        = errors.New("api: minimap doesn't exist, the world may be unlisted")
)

// Failure is an error body returned by the API.
type Failure struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("api failure [%d]: %s", f.Code, f.Message)
}
