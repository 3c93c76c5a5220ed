package model

import (
	"encoding/json"
	"testing"
)

func TestInterpretResultMarshalJSON(t *testing.T) {
	single := InterpretResult{Single: &OperationDescriptor{
		Operation:  OpSum,
		Parameters: json.RawMessage(`{"columnLetter":"D"}`),
	}}

	data, err := json.Marshal(single)
	if err != nil {
		t.Fatalf("Marshal(single) error = %v", err)
	}

	// The single case serializes as a bare descriptor, not a wrapper.
	if string(data) != `{"operation":"sum","parameters":{"columnLetter":"D"}}` {
		t.Errorf("single = %s", data)
	}

	compound := InterpretResult{Operations: []OperationDescriptor{
		{Operation: OpSort},
		{Operation: OpChart},
	}}

	data, err = json.Marshal(compound)
	if err != nil {
		t.Fatalf("Marshal(compound) error = %v", err)
	}

	var wrapper struct {
		Operations []OperationDescriptor `json:"operations"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || len(wrapper.Operations) != 2 {
		t.Errorf("compound = %s", data)
	}
}

func TestIsKnownOperation(t *testing.T) {
	for _, op := range Operations() {
		if !IsKnownOperation(op) {
			t.Errorf("IsKnownOperation(%q) = false", op)
		}
	}

	for _, op := range []string{"", "pivot_table", "SUM", BatchTranslateSentinel + "x"} {
		if IsKnownOperation(op) {
			t.Errorf("IsKnownOperation(%q) = true", op)
		}
	}
}
