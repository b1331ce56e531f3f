package ports

import "errors"

// Adapter implementations normalize provider-specific failures to these
// sentinels so the session layer can treat every identity service
// uniformly.
var (
	// ErrInvalidCredentials is returned by SignIn/SignUp when the
	// provider rejects the supplied credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProviderUnavailable is returned when the provider cannot be
	// reached or responds outside its contract.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrSignUpUnsupported is returned by providers whose accounts are
	// managed out of band (e.g. a corporate IdP).
	ErrSignUpUnsupported = errors.New("sign-up not supported by provider")

	// ErrProfileUnsupported is returned by providers that do not store
	// profile fields.
	ErrProfileUnsupported = errors.New("profile updates not supported by provider")
)
