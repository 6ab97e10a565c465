// Package timeouts defines shared timeout constants used across the app.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TextGeneration caps a single call to the external text generator.
const TextGeneration = 90 * time.Second

// MailSend caps a single outbound mail delivery.
const MailSend = 15 * time.Second

// SessionTTL is the lifetime of an authenticated browser session.
const SessionTTL = 7 * 24 * time.Hour
