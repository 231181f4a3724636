// Package transport frames typed protocol messages over a persistent
// duplex websocket connection, delivers received messages asynchronously
// to a registered callback, and escalates any I/O or protocol fault by
// closing the connection and invoking a fault callback exactly once.
package transport
