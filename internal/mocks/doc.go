// Package mocks contains mocks for net.Conn and for the interfaces
// defined by the model package.
package mocks
