package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TransactionNumber formats the human-readable receipt identifier:
// MMDDYY-PC{NN}-SEQ{SS} for station orders, MMDDYY-WI-SEQ{SS} for walk-ins.
// seq is one past the highest ordinal issued today; it is computed inside
// the placement transaction (see OrderService.PlaceOrder) and never reuses
// a number, even after cancellations delete earlier orders.
func TransactionNumber(t time.Time, station int, seq int64) string {
	date := t.Format("010206")
	if station <= 0 {
		return fmt.Sprintf("%s-WI-SEQ%02d", date, seq)
	}
	return fmt.Sprintf("%s-PC%02d-SEQ%02d", date, station, seq)
}

// SeqFromTransactionNumber extracts the SEQ ordinal from a transaction
// number. Malformed or unnumbered input yields 0.
func SeqFromTransactionNumber(tn string) int64 {
	i := strings.LastIndex(tn, "SEQ")
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseInt(tn[i+3:], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// StationAlias renders the order attribution descriptor ("PC-07", or "WI"
// for walk-in orders).
func StationAlias(station int) string {
	if station <= 0 {
		return "WI"
	}
	return fmt.Sprintf("PC-%02d", station)
}

// StationFromAlias parses the station number back out of an order alias.
// Walk-in and malformed aliases yield 0.
func StationFromAlias(alias string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(alias, "PC-"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
