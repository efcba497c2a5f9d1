// Package connection provides the websocket connection used by ws commands.
//
// This package implements the Connection capability on top of
// gorilla/websocket:
//
//   - connection.go: Connection interface, Message and Options
//   - client.go: Client, a dialed websocket with a background reader
//   - errors.go: transport errors (timeouts, rejection, closed channel)
//
// A Client owns one goroutine reading frames. Data frames are queued for
// Receive, pongs resolve pending pings, and a read error ends the queue.
// Writes are serialised, so Send, Ping and Pong may be called from several
// goroutines.
//
// @design DS-0602
package connection
