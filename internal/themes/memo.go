// SPDX-License-Identifier: MPL-2.0

package themes

import (
	"strconv"

	"github.com/hookwire/hookwire/pkg/baseconv"
)

// IDMemo assigns Base32 identifiers to names in first-seen order, starting
// from "A". Create one per generation pass; it is not safe for concurrent
// use.
type IDMemo struct {
	ids   map[string]string
	names []string
}

// NewIDMemo returns an empty memo.
func NewIDMemo() *IDMemo {
	return &IDMemo{ids: make(map[string]string)}
}

// ID returns the identifier for name, minting the next one on first use.
func (m *IDMemo) ID(name string) (string, error) {
	if id, ok := m.ids[name]; ok {
		return id, nil
	}
	id, err := baseconv.ToBase32(strconv.Itoa(len(m.names)))
	if err != nil {
		return "", err
	}
	m.ids[name] = id
	m.names = append(m.names, name)
	return id, nil
}

// Names returns the memoized names in minting order.
func (m *IDMemo) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of memoized names.
func (m *IDMemo) Len() int { return len(m.names) }
