// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package iso8583

// Encoding enumerates the wire formats of ISO8583 data elements.
type Encoding int

const (
	Numeric Encoding = iota // fixed width, left zero-padded digits
	Alpha                   // fixed width, right space-padded text
	LLVar                   // variable, 2-digit decimal length prefix
	LLLVar                  // variable, 3-digit decimal length prefix
	Date10                  // MMddHHmmss, 10 digits
	Binary                  // fixed width, raw bytes
)

// FieldDef describes one ISO8583 data element.
type FieldDef struct {
	Num  int
	Name string
	Enc  Encoding
	Len  int // width for fixed encodings, 0 for LLVar/LLLVar
}

// Fixed reports whether the field has a declared fixed width.
func (d FieldDef) Fixed() bool { return d.Enc != LLVar && d.Enc != LLLVar }

// Message type indicators used by the gateway.
const (
	MTIFinancialRequest  = "0200"
	MTIFinancialResponse = "0210"
	MTIFormatError       = "0231"
)

// Data element numbers the gateway reads or writes by name.
const (
	FieldPAN           = 2
	FieldProcessing    = 3
	FieldAmount        = 4
	FieldTransmission  = 7
	FieldSTAN          = 11
	FieldLocalTime     = 12
	FieldLocalDate     = 13
	FieldApprovalCode  = 38
	FieldResponseCode  = 39
	FieldTerminalID    = 41
	FieldMessage       = 44
	FieldCurrency      = 49
	FieldAddlAmounts   = 54
	FieldMAC           = 64
	FieldNetworkMgmt   = 70
)

// baseSchema is the data element dictionary shared by the 0200/0210/0231
// message types. One table drives the builder, the parser, the validator
// and the response copy step.
var baseSchema = map[int]FieldDef{
	2:  {2, "PAN", LLVar, 0},
	3:  {3, "ProcessingCode", Numeric, 6},
	4:  {4, "Amount", Numeric, 12},
	7:  {7, "TransmissionDateTime", Date10, 10},
	11: {11, "STAN", Numeric, 6},
	12: {12, "LocalTime", Numeric, 6},
	13: {13, "LocalDate", Numeric, 4},
	38: {38, "ApprovalCode", Alpha, 6},
	39: {39, "ResponseCode", Alpha, 2},
	41: {41, "TerminalID", Alpha, 8},
	44: {44, "Message", LLVar, 0},
	49: {49, "Currency", Numeric, 3},
	54: {54, "AddlAmounts", LLLVar, 0},
	60: {60, "Reserved60", LLLVar, 0},
	61: {61, "Reserved61", LLLVar, 0},
	62: {62, "Reserved62", LLLVar, 0},
	63: {63, "Reserved63", LLLVar, 0},
	64: {64, "MAC", Binary, 8},
	70: {70, "NetworkMgmtCode", Numeric, 3},
}

// responseOnly lists fields that must never be copied from a request into
// a response; they are owned by the responder.
var responseOnly = map[int]bool{
	FieldApprovalCode: true,
	FieldResponseCode: true,
	FieldMessage:      true,
	FieldAddlAmounts:  true,
}

// templates holds per-MTI default field values applied by Build before the
// caller's values. Field 38 is only meaningful on a success response.
var templates = map[string]map[int]string{
	MTIFinancialRequest: {
		FieldProcessing: "000000",
		FieldCurrency:   "566",
	},
	MTIFinancialResponse: {
		FieldCurrency: "566",
	},
	MTIFormatError: {},
}

// SchemaFor returns the field dictionary for an MTI, or nil if the MTI is
// not supported by the gateway.
func SchemaFor(mti string) map[int]FieldDef {
	if _, ok := templates[mti]; !ok {
		return nil
	}
	return baseSchema
}
