// Package correctcopystatus implements the Correct Copy Status use case.
//
// Staff move a copy between available, damaged and disposed, for example after an inspection or a
// repair. Copies on loan are never touched here, they leave borrowed only through a return.
package correctcopystatus
