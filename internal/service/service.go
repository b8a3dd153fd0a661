// Package service contains the business logic layer of the application.
//
// THE THREE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes the response envelope
//	Service (business layer) → validates, checks ownership, orchestrates
//	Repository (data layer)  → reads/writes MongoDB
//
// Services take repository interfaces, never the mongo package, so every
// rule in here is tested against the in-memory mocks in mocks_test.go.
//
// CALLER IDS:
// Every method that acts on behalf of a user takes the caller's id as the
// hex string carried in the access token (auth.UserIDFromContext). A caller
// id that is not a valid ObjectID is treated as an invalid credential, while
// a bad id in the request itself is a validation error.
//
// ERRORS:
// Services only return *apperror.AppError kinds (or errors wrapping one),
// so the handler can map them to status codes without knowing the rules.
package service

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
)

// Listing limits.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// SampleSize is how many random videos the listing returns when the
	// client sends neither page nor limit.
	SampleSize = 10
)

// parseID validates a client-supplied id.
func parseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperror.ValidationFailed(field, "Invalid "+field)
	}
	return id, nil
}

// callerID parses the authenticated caller's id.
func callerID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperror.Unauthorized("Invalid access token")
	}
	return id, nil
}

// requireOwner returns Forbidden unless caller owns the resource.
func requireOwner(owner, caller primitive.ObjectID, message string) error {
	if owner != caller {
		return apperror.Forbidden(message)
	}
	return nil
}

// required trims value and rejects it when blank.
func required(field, value, message string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperror.ValidationFailed(field, message)
	}
	return v, nil
}

// NormalizePage applies the default limit and clamps both fields into
// range. Page is 1-based.
func NormalizePage(req model.PageRequest) model.PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	switch {
	case req.Limit < 1:
		req.Limit = DefaultPageLimit
	case req.Limit > MaxPageLimit:
		req.Limit = MaxPageLimit
	}
	return req
}
