// Package webapi is the HTTP surface of the gateway. It carries two very
// different boundaries on one mux: the admin gateway, where every operation
// sits behind a session credential and every failure maps to a distinct
// error kind, and the webhook gateway, which acknowledges unconditionally
// so the inbound transport never retries.
package webapi
