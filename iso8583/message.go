// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package iso8583

import "sort"

// Message is an ordered, sparse mapping from data element number to value.
// Values are held in their string form; Binary fields hold raw bytes in the
// string. A message never outlives a single connection exchange.
type Message struct {
	MTI    string
	fields map[int]string
}

// New creates an empty message with the given MTI.
func New(mti string) *Message {
	return &Message{MTI: mti, fields: make(map[int]string)}
}

// Set stores a field value. The value is validated and padded when the
// message is encoded, not here.
func (m *Message) Set(field int, value string) { m.fields[field] = value }

// Get returns a field value and whether it is present.
func (m *Message) Get(field int) (string, bool) {
	v, ok := m.fields[field]
	return v, ok
}

// GetString returns a field value, or "" when absent.
func (m *Message) GetString(field int) string { return m.fields[field] }

// Has reports whether the field is present.
func (m *Message) Has(field int) bool {
	_, ok := m.fields[field]
	return ok
}

// Remove drops a field from the message.
func (m *Message) Remove(field int) { delete(m.fields, field) }

// FieldNumbers returns the present field numbers in ascending order.
func (m *Message) FieldNumbers() []int {
	nums := make([]int, 0, len(m.fields))
	for f := range m.fields {
		nums = append(nums, f)
	}
	sort.Ints(nums)
	return nums
}
