package model

import (
	"encoding/json"
)

// Operation vocabulary. The interpreter rejects anything outside this set.
const (
	OpMerge             = "merge"
	OpSum               = "sum"
	OpAverage           = "average"
	OpCount             = "count"
	OpFormat            = "format"
	OpSort              = "sort"
	OpFilter            = "filter"
	OpInsert            = "insert"
	OpDelete            = "delete"
	OpFormula           = "formula"
	OpChart             = "chart"
	OpConditionalFormat = "conditional_format"
	OpTranslate         = "translate"
	OpCompress          = "compress"
	OpRemoveBorder      = "remove_border"
	OpBorderFormat      = "border_format"
)

// BatchTranslateSentinel marks a sheet context that carries a batch
// translation payload instead of a regular command.
const BatchTranslateSentinel = "translate_batch"

const (
	ClientTypeExcel        = "excel"
	ClientTypeGoogleSheets = "google-sheets"
)

// Operations returns the full vocabulary in prompt order.
func Operations() []string {
	return []string{
		OpMerge, OpSum, OpAverage, OpCount, OpFormat, OpSort, OpFilter,
		OpInsert, OpDelete, OpFormula, OpChart, OpConditionalFormat,
		OpTranslate, OpCompress, OpRemoveBorder, OpBorderFormat,
	}
}

// IsKnownOperation reports whether op belongs to the vocabulary.
func IsKnownOperation(op string) bool {
	for _, known := range Operations() {
		if op == known {
			return true
		}
	}

	return false
}

// Header describes one labelled column of the active sheet.
type Header struct {
	ColumnLetter string `json:"columnLetter"`
	Label        string `json:"label"`
}

type ActiveRange struct {
	Address string `json:"address"`
}

// SheetContext is the caller-produced snapshot of the live spreadsheet.
// When Operation equals BatchTranslateSentinel the Texts/TargetLanguage
// fields carry a positionally significant batch translation payload.
type SheetContext struct {
	ActiveRange    *ActiveRange `json:"activeRange,omitempty"`
	SheetName      string       `json:"sheetName,omitempty"`
	LastRow        int          `json:"lastRow,omitempty"`
	LastColumn     int          `json:"lastColumn,omitempty"`
	Headers        []Header     `json:"headers,omitempty"`
	Operation      string       `json:"operation,omitempty"`
	Texts          []string     `json:"texts,omitempty"`
	TargetLanguage string       `json:"targetLanguage,omitempty"`
	SourceLanguage string       `json:"sourceLanguage,omitempty"`
}

// OperationDescriptor is a single interpreted spreadsheet action.
// Parameters are operation specific and passed through as-is.
type OperationDescriptor struct {
	Operation  string          `json:"operation"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// InterpretResult is the outcome of one interpretation: either a single
// descriptor or an ordered list of them, never both.
type InterpretResult struct {
	Single     *OperationDescriptor  `json:"-"`
	Operations []OperationDescriptor `json:"-"`
}

// MarshalJSON emits the wire shape: the bare descriptor for the single
// case, {"operations": [...]} for the compound one.
func (r InterpretResult) MarshalJSON() ([]byte, error) {
	if r.Single != nil {
		return json.Marshal(r.Single)
	}

	return json.Marshal(struct {
		Operations []OperationDescriptor `json:"operations"`
	}{Operations: r.Operations})
}

// BatchTranslateResult preserves positional alignment with the input list.
type BatchTranslateResult struct {
	Operation    string   `json:"operation"`
	Translations []string `json:"translations"`
}

type CommandRequest struct {
	Command      string        `json:"command"`
	SheetContext *SheetContext `json:"sheetContext"`
	Model        string        `json:"model,omitempty"`
	AuthKey      string        `json:"authKey,omitempty"`
	AuthEmail    string        `json:"authEmail,omitempty"`
	ClientType   string        `json:"clientType,omitempty"`
}
