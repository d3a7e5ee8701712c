// Package engine contains the simulation loop and board logic.
//
// ARCHITECTURAL RULE: all board mutation is routed through the
// Simulation controller. Nothing in this package knows about files,
// sockets, or databases; those collaborators reach in through the
// FileReader/FileWriter ports and the event log.
package engine
