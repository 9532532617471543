package core

// Journal entry types written by the circulation commands.
const (
	JournalCardRegistered        = "CardRegistered"
	JournalCardStatusChanged     = "CardStatusChanged"
	JournalDepositRecorded       = "DepositRecorded"
	JournalDepositRefunded       = "DepositRefunded"
	JournalCopyAdded             = "CopyAdded"
	JournalCopyStatusCorrected   = "CopyStatusCorrected"
	JournalBorrowRequestCreated  = "BorrowRequestCreated"
	JournalBorrowRequestApproved = "BorrowRequestApproved"
	JournalBorrowRequestRejected = "BorrowRequestRejected"
	JournalBorrowRequestCanceled = "BorrowRequestCancelled"
	JournalCopiesReallocated     = "CopiesReallocated"
	JournalBorrowRequestIssued   = "BorrowRequestIssued"
	JournalBorrowRequestExtended = "BorrowRequestExtended"
	JournalBooksReturned         = "BooksReturned"
	JournalBorrowRequestOverdue  = "BorrowRequestMarkedOverdue"
	JournalFinePaid              = "FinePaid"
)
