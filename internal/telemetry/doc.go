// Package telemetry publishes the robot loop's state while it runs.
//
// A [Table] is a flat key/value dashboard, one entry per diagnostic, filled
// from a [control.Frame] by [Table.Publish]. A [Hub] fans JSON messages out
// to websocket clients and turns client commands back into control events.
// [Publisher] ties the two to a simulator as a step observer.
package telemetry
