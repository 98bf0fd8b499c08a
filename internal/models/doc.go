// Package models defines the core domain models for the group ledger.
//
// # Entities
//
//   - User: a registered account that can pay for and owe on expenses
//   - Group: a named set of users who share expenses; memberships are
//     store rows keyed by (group, user) with no model of their own
//   - Expense: a payment made by one member on behalf of a group
//   - Share: the amount one non-payer member owes for one expense
//
// # Conventions
//
// 1. Identifiers are UUID strings generated by the store.
// 2. Money is int64 minor currency units. Floats never hold amounts.
// 3. Timestamps are Unix seconds (UTC).
// 4. Relationships are expressed with ID strings, not pointers.
//
// Expenses and their shares are immutable once written. Editing, deleting
// and settling expenses are not supported.
package models
