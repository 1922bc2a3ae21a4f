package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/setavenger/blindbit-desktop/pkg/database"
)

// ErrInvalidPassword is returned when a wallet file does not open with the
// given password.
var ErrInvalidPassword = errors.New("invalid wallet password")

// Contact is an address book entry.
type Contact struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Transaction is a wallet history entry.
type Transaction struct {
	Txid        string      `json:"txid"`
	Direction   TxDirection `json:"direction"`
	Amount      uint64      `json:"amount"`
	Fee         uint64      `json:"fee,omitempty"`
	Height      uint64      `json:"height,omitempty"`
	Timestamp   int64       `json:"timestamp"`
	Description string      `json:"description,omitempty"`
}

// Time returns the transaction timestamp in UTC.
func (t Transaction) Time() time.Time {
	return time.Unix(t.Timestamp, 0).UTC()
}

// Pending reports whether the transaction is not yet in a block.
func (t Transaction) Pending() bool {
	return t.Height == 0
}

type Wallet struct {
	Network      string        `json:"network"`
	BirthHeight  uint64        `json:"birth_height,omitempty"`
	Contacts     []Contact     `json:"contacts"`
	Transactions []Transaction `json:"transactions"`
}

func (w *Wallet) Serialise() ([]byte, error) {
	return json.Marshal(w)
}

func (w *Wallet) DeSerialise(data []byte) error {
	return json.Unmarshal(data, w)
}

// AddContact inserts or renames the contact for address.
func (w *Wallet) AddContact(address, name string) {
	for i := range w.Contacts {
		if w.Contacts[i].Address == address {
			w.Contacts[i].Name = name
			return
		}
	}
	w.Contacts = append(w.Contacts, Contact{Address: address, Name: name})
}

// History returns the transactions ordered oldest first.
func (w *Wallet) History() []Transaction {
	history := make([]Transaction, len(w.Transactions))
	copy(history, w.Transactions)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp < history[j].Timestamp
	})
	return history
}

// Balance sums incoming minus outgoing amounts and fees of confirmed
// transactions.
func (w *Wallet) Balance() int64 {
	var balance int64
	for _, tx := range w.Transactions {
		if tx.Pending() {
			continue
		}
		switch tx.Direction {
		case DirectionIn:
			balance += int64(tx.Amount)
		case DirectionOut:
			balance -= int64(tx.Amount + tx.Fee)
		}
	}
	return balance
}

// Open reads the wallet file at path with password.
func Open(path, password string) (*Wallet, error) {
	db := database.DBWriter{Password: password}

	var w Wallet
	err := db.ReadFromDB(path, &w)
	if err != nil {
		if errors.Is(err, database.ErrDecrypt) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("open wallet %s: %w", path, err)
	}
	return &w, nil
}

// Save writes w to path, encrypted with password.
func Save(path, password string, w *Wallet) error {
	db := database.DBWriter{Password: password}
	return db.WriteToDB(path, w)
}
