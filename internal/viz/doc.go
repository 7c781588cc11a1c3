// Package viz is the live terminal view of a running rig, built on Bubble
// Tea.
//
// The simulation runs on its own goroutine at the loop period. The [Model]
// polls the rig's latest frame on every refresh and draws a top-down view
// of chassis, turret and target next to the diagnostics and a plot of the
// recent turret angle. Key presses become control events:
//
//	←/A →/D   jog the turret
//	Space     stop jogging
//	1 2 3     turn the chassis +90, -90, 180
//	X / C     cancel the turn / the wrap
//	H         rehome the turret
//	+ / -     tracking speed
//	T         cycle themes
package viz
