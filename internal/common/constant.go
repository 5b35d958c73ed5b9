package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is prepended to the access token in the Authorization header.
const BearerPrefix = "Bearer "
