// Package registration is the heart of the gateway: it decides, for each
// inbound update, whether the sender's number is authorized, idempotently
// binds the chat handle to the number, and replies deterministically.
//
// The pipeline per update is strict: parse, drop duplicates, handle bot
// commands, normalize and apply the length floor, check the whitelist, then
// bind-and-confirm or reject. Bindings are written before the confirmation
// message so a delivery failure never leaves an authorized contact unbound.
package registration
