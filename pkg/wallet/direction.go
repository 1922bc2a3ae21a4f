package wallet

import (
	"fmt"
	"strings"
)

type TxDirection int8

const (
	DirectionIn TxDirection = iota + 1
	DirectionOut
)

func (d TxDirection) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "unknown"
	}
}

func (d TxDirection) MarshalJSON() ([]byte, error) {
	return []byte("\"" + d.String() + "\""), nil
}

func (d *TxDirection) UnmarshalJSON(data []byte) error {
	switch strings.ReplaceAll(string(data), "\"", "") {
	case DirectionIn.String():
		*d = DirectionIn
	case DirectionOut.String():
		*d = DirectionOut
	default:
		return fmt.Errorf("err: %s is not a valid direction", string(data))
	}
	return nil
}
