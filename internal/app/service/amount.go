package service

import (
	"encoding/json"
	"errors"
	"strconv"
)

var (
	errAmountMissing     = errors.New("Amount is required.")
	errAmountNotNumber   = errors.New("Amount must be a positive integer.")
	errAmountNotPositive = errors.New("Amount must be greater than zero.")
)

// Amount keeps an ingredient quantity exactly as the client sent it, either a JSON
// number or a string, so that validation decides what is acceptable.
type Amount struct {
	raw    string
	quoted bool
	set    bool
}

func NewAmount(n int) Amount {
	return Amount{raw: strconv.Itoa(n), set: true}
}

func AmountString(s string) Amount {
	return Amount{raw: s, quoted: true, set: true}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountString(s)
		return nil
	}
	*a = Amount{raw: string(data), set: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case !a.set:
		return []byte("null"), nil
	case a.quoted:
		return json.Marshal(a.raw)
	}
	return []byte(a.raw), nil
}

// Int returns the quantity; strings must consist of digits only.
func (a Amount) Int() (int, error) {
	if !a.set {
		return 0, errAmountMissing
	}
	if a.quoted && !isDigits(a.raw) {
		return 0, errAmountNotNumber
	}
	n, err := strconv.Atoi(a.raw)
	if err != nil {
		return 0, errAmountNotNumber
	}
	if n <= 0 {
		return 0, errAmountNotPositive
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
