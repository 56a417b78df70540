// Package testingx contains code useful for testing the client
// against real (or netem-backed) raw TCP servers.
package testingx
