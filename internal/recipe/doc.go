// Package recipe defines the parsed, in-memory form of one recipe file.
//
// A Document is treated as an immutable value once produced by the parser:
// operations such as Scale return a new Document and never modify the
// receiver, so documents can be shared freely between goroutines.
package recipe
