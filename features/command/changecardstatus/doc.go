// Package changecardstatus implements the Change Card Status use case: lock, unlock and renew.
//
// Renewal reactivates an active or expired card and replaces its expiry date. A locked card has
// to be unlocked first.
package changecardstatus
