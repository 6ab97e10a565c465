// Package auth groups the sign-in building blocks used by the web service.
//
// Subpackages:
//   - magiclink: signed, expiring login tokens and their settings
package auth
