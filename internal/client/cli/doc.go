// Package cli is the interactive cakeplanner command-line client.
//
// App wires the session manager, the backend API and the notification
// channel behind a small REPL. Commands are guarded the same way the web
// routes are: calendar commands need a session, administration commands
// need a global or group admin (see package guard).
//
// The REPL is started with App.Run, which blocks until the user exits or
// input ends.
package cli
