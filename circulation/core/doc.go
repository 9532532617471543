// Package core holds the pure circulation domain: cards, copies, borrow requests, fines and deposits.
//
// Every status type carries an explicit transition table and all transitions go through its Apply
// method, so an illegal transition is rejected in one place and reported as a *TransitionError.
//
// Nothing in this package performs I/O. Time is always passed in explicitly, and configurable
// business parameters (fine rate, default borrow period, deposit minimum, extension policy) come in
// through a Policy value. This keeps the rules deterministic and testable in isolation.
package core
