package common

// AuthorizationHeaderName carries the bearer token on inbound HTTP requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the authorization header.
const BearerPrefix = "Bearer "
