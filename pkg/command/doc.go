// Package command provides the text-command grammar and dispatcher used
// on both ends of the RCT link. The console and the controller each own
// an Interpreter populated with their side's commands; a line the local
// interpreter does not recognize is the routing signal to forward it to
// the remote peer.
package command
