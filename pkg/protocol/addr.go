package protocol

import "fmt"

// DefaultPort is the TCP port the controller listens on. 5800 is the
// first port in the FRC field-legal team-use range.
const DefaultPort = 5800

// RoborioHost derives the mDNS hostname of a roboRIO from its team number.
// Pure string formatting; no name resolution happens here.
func RoborioHost(teamNum int) string {
	return fmt.Sprintf("roboRIO-%d-frc.local", teamNum)
}

// ServerURL builds the websocket endpoint URL for a team's controller.
func ServerURL(teamNum, port int) string {
	return fmt.Sprintf("ws://%s:%d/rct", RoborioHost(teamNum), port)
}
