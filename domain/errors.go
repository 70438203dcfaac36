package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrUnauthorized will throw if the caller has no resolvable identity
	ErrUnauthorized = errors.New("user not authenticated")

	// ErrAlreadyLiked is returned when the user already holds an active like on the message.
	ErrAlreadyLiked = errors.New("message already liked by this user")
	// ErrNotLiked is returned when unliking a message the user has not liked.
	ErrNotLiked = errors.New("message not liked by this user")
	// ErrMessageUnavailable is returned when the target message is missing or deleted.
	ErrMessageUnavailable = errors.New("message is deleted or does not exist")

	// ErrCacheMiss means the key is absent or logically expired.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheUnavailable is internal to the cache layer and never reaches callers.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
