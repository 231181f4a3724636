// Package protocol defines the wire messages exchanged between the RCT
// console and the robot controller. Messages are JSON-encoded tagged
// unions carried one per websocket frame, so delivery is framed and
// ordered per connection.
package protocol
