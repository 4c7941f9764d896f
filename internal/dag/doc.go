// Package dag is a small directed graph of string IDs used to order
// report locals and reject definitions whose locals refer to each other in
// a cycle.
package dag
