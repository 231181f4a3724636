// Package controller implements the robot side of the RCT link: the
// server that accepts console connections and the executor that runs
// forwarded instructions against the robot's registries.
package controller
