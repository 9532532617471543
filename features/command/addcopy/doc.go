// Package addcopy implements the Add Copy use case: a new physical copy of an edition enters the
// inventory in status available.
package addcopy
