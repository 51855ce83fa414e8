// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package iso8583

import (
	"fmt"
	"time"
)

// NewFinancialRequest builds a 0200 financial request the way a terminal
// would: amount in minor units, transmission/local date-time fields stamped
// from now, STAN supplied by the caller's sequence source.
func NewFinancialRequest(pan string, amountMinor int64, terminalID, stan string, now time.Time) (*Message, error) {
	if amountMinor < 0 {
		return nil, &EncodingError{Field: FieldAmount, Reason: "amount must not be negative"}
	}
	return Build(MTIFinancialRequest, map[int]string{
		FieldPAN:          pan,
		FieldAmount:       fmt.Sprintf("%012d", amountMinor),
		FieldTransmission: now.Format("0102150405"),
		FieldSTAN:         stan,
		FieldLocalTime:    now.Format("150405"),
		FieldLocalDate:    now.Format("0102"),
		FieldTerminalID:   terminalID,
	})
}
