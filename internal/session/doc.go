// Package session is the explicit context every operation runs against. A
// Session owns the configuration, the song cache and the check results of
// the playlists checked so far, and persists the latter two between runs.
//
// A Session is meant to be driven by one caller at a time. The song cache it
// hands out is safe for concurrent readers.
package session
