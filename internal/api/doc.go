// Package api wires the HTTP surface of core-api: the chi router, session
// auth middleware, and the REST handlers for onboarding and its entities.
package api
