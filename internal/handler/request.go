package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Amount accepts either a JSON number or a string holding one.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Errorf("amount %s is not a number", data)
	}
	*a = Amount(v)
	return nil
}

func (a *Amount) float() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}

type CreateTransactionRequest struct {
	Amount *Amount `json:"amount" validate:"required"`
	Type   string  `json:"type" validate:"required"`
	Desc   *string `json:"desc"`
}

// UpdateTransactionRequest fields are optional; absent fields stay unchanged.
type UpdateTransactionRequest struct {
	Amount *Amount `json:"amount"`
	Type   *string `json:"type"`
	Desc   *string `json:"desc"`
}
