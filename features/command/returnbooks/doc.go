// Package returnbooks implements the Return Books use case.
//
// Staff take back some or all copies of a borrowed or overdue request. Each returned copy
// closes its borrow detail with the actual return date and the return condition, and the copy
// is released with a compare-and-swap from borrowed to available, damaged or disposed.
//
// Fines are assessed before the return is finalized:
//   - a copy returned after the due date gets an overdue fine of price × rate × days late,
//   - a lost copy gets a loss fine of its full price,
//   - a damaged copy gets a damage fine when staff entered a positive amount.
//
// Fines of zero are never recorded. The request becomes returned once every detail is closed,
// until then it keeps its status.
package returnbooks
