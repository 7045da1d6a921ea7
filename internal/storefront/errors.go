package storefront

import "errors"

// Error taxonomy surfaced by the storefront core. Store state is left
// unchanged whenever one of these is returned, so the caller can retry
// without losing data.
var (
	// ErrInvalidCredentials is returned by login when the email/password
	// pair is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidQuantity is returned for a non-positive cart quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrNotFound covers both an absent cart line and a 404 from the API.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized maps a 401: missing or invalid bearer credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden maps a 403: valid credential, insufficient role.
	ErrForbidden = errors.New("forbidden")

	// ErrRejected maps a 400 from the API.
	ErrRejected = errors.New("request rejected")

	// ErrServer covers unexpected backend failures and transport errors
	// where no response was received at all.
	ErrServer = errors.New("server error")

	// ErrRequestInFlight is returned when an order submission is attempted
	// while a previous one has not completed yet.
	ErrRequestInFlight = errors.New("request already in flight")
)
