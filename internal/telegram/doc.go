// Package telegram holds the Bot API surface the gateway touches: the
// inbound webhook update types with their extraction helpers, and the
// outbound sendMessage client behind the Dispatcher interface.
package telegram
