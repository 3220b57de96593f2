// Package dedupe tracks recently processed webhook update IDs in a TTL
// cache so redelivered updates are dropped instead of producing duplicate
// bindings and notifications.
package dedupe
