// Package cashbook keeps the books of a small business or a household: cash
// accounts in independent currencies, income and expense transactions,
// transfers between accounts, proformas and invoices, period reports and a
// simplified corporate tax ("Sociedades") estimate.
//
// The core is the Ledger and its balance reconciliation:
//   - Account balances are a cached projection of their transactions, see
//     Reconcile. They are recomputed every time a book is opened.
//   - Transactions are validated before anything is modified, and each
//     mutation keeps the cached balance in step with the history.
//   - Transfers are recorded as two to four transactions, all or nothing.
//   - Documents never move money.
//
// The whole book is a single flat State, written as one JSON snapshot after
// every mutation (see DecodeState, EncodeState and the storage package).
// Loading is lenient: a hand-edited or legacy snapshot is merged with the
// defaults instead of being rejected.
//
// This package serves as the foundational logic for the `cashbook`
// command-line tool.
package cashbook
