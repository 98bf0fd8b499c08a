package calculator

import (
	"fmt"
	"math"
	"sort"

	"github.com/mmynk/groupledger/internal/models"
)

// ShareAmount is the amount one non-payer member owes for an expense.
type ShareAmount struct {
	UserID string
	Amount int64
}

// SplitRequest carries everything needed to turn an expense into shares.
// Members is the current member set of the expense's group.
type SplitRequest struct {
	Total        int64
	Operation    models.SplitOperation
	PayerID      string
	Members      []string
	ExactAmounts []ShareAmount
}

// CalculateShares validates the request and returns the shares to persist.
// The payer never appears in the result; their portion is whatever the
// shares leave of the total.
func CalculateShares(req SplitRequest) ([]ShareAmount, error) {
	if req.Total <= 0 {
		return nil, fmt.Errorf("%w: total must be positive, got %d", ErrInvalidAmount, req.Total)
	}
	if !req.Operation.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, req.Operation)
	}
	if !contains(req.Members, req.PayerID) {
		return nil, &UserNotInGroupError{UserID: req.PayerID}
	}

	if req.Operation == models.SplitEqual {
		return SplitEqual(req.Total, req.PayerID, req.Members)
	}
	return SplitExact(req.Total, req.PayerID, req.Members, req.ExactAmounts)
}

// SplitEqual divides total evenly across all members, payer included.
//
// Each non-payer owes floor(total / len(members)). The payer carries the
// remainder, so shares never round up and shares + payer portion == total.
// Shares are returned in ascending user ID order.
func SplitEqual(total int64, payerID string, members []string) ([]ShareAmount, error) {
	others := make([]string, 0, len(members))
	for _, m := range members {
		if m != payerID {
			others = append(others, m)
		}
	}
	if len(others) == 0 {
		return nil, fmt.Errorf("%w: group has no members besides the payer", ErrInvalidOperation)
	}
	sort.Strings(others)

	perMember := total / int64(len(others)+1)

	shares := make([]ShareAmount, len(others))
	for i, userID := range others {
		shares[i] = ShareAmount{UserID: userID, Amount: perMember}
	}
	return shares, nil
}

// SplitExact validates caller-supplied amounts against the expense.
//
// Checks run in order: amounts are non-negative, amounts sum to total,
// every user is a member, the payer is absent and nobody is listed twice.
// Shares are returned in the order supplied.
func SplitExact(total int64, payerID string, members []string, amounts []ShareAmount) ([]ShareAmount, error) {
	var sum int64
	for _, a := range amounts {
		if a.Amount < 0 {
			return nil, fmt.Errorf("%w: amount for user %s is negative", ErrInvalidAmount, a.UserID)
		}
		if sum > math.MaxInt64-a.Amount {
			return nil, fmt.Errorf("%w: specified amounts overflow", ErrInvalidAmount)
		}
		sum += a.Amount
	}
	if sum != total {
		return nil, fmt.Errorf("%w: specified %d, total %d", ErrAmountMismatch, sum, total)
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	for _, a := range amounts {
		if !memberSet[a.UserID] {
			return nil, &UserNotInGroupError{UserID: a.UserID}
		}
	}

	seen := make(map[string]bool, len(amounts))
	shares := make([]ShareAmount, 0, len(amounts))
	for _, a := range amounts {
		if a.UserID == payerID {
			return nil, fmt.Errorf("%w: payer %s cannot owe a share of their own expense", ErrInvalidParticipant, a.UserID)
		}
		if seen[a.UserID] {
			return nil, fmt.Errorf("%w: user %s listed more than once", ErrInvalidParticipant, a.UserID)
		}
		seen[a.UserID] = true
		shares = append(shares, a)
	}
	return shares, nil
}

// PayerPortion returns the part of total not covered by shares.
func PayerPortion(total int64, shares []ShareAmount) int64 {
	portion := total
	for _, s := range shares {
		portion -= s.Amount
	}
	return portion
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
