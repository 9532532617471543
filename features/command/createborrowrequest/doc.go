// Package createborrowrequest implements the Create Borrow Request use case.
//
// A reader or a staff member asks to borrow one copy of each requested edition on a card.
// The card must be active and below its max books limit. For every requested edition one
// available copy is soft allocated: the copy is written onto a borrow detail but its status
// stays available until the request is issued, so pending and approved requests never starve
// the shelf.
//
// The due date defaults to the card's max borrow days from now. A desired due date must lie in
// the future and within that period.
package createborrowrequest
