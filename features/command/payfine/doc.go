// Package payfine implements the Pay Fine use case.
//
// Staff record that a pending fine was paid and who collected it. A fine can be paid once,
// paying it again fails with core.ErrInvalidState. Payment processing itself happens elsewhere.
package payfine
