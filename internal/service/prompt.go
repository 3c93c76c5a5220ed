package service

import (
	"fmt"
	"strings"

	"sheetworks-back/internal/model"
)

// buildSystemPrompt assembles the interpreter's grammar: the operation
// vocabulary, per-operation parameter rules with worked examples, the two
// permissible response shapes, and the live sheet snapshot. One template
// serves both platforms; only the assistant phrasing differs.
func buildSystemPrompt(clientType string, sheetCtx *model.SheetContext) string {
	platform := "Excel"
	if clientType == model.ClientTypeGoogleSheets {
		platform = "Google Sheets"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "You are a %s assistant that interprets natural language commands and returns JSON instructions for spreadsheet operations.\n\n", platform)

	b.WriteString("Available operations:\n")
	for i, op := range model.Operations() {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, op, operationSummaries[op])
	}

	b.WriteString(`
For count operation, parameters should include:
- "sourceRange": range to count from
- "targetCell": where to put the result (optional)
- "countType": "count", "counta", or "countif"
- "condition": for countif
- "operator": "contains", "equals", ">", "<", etc.

For sum operation:
- If the user mentions a column by header name (e.g., "totalToken 열의 합", "totalToken 합산"), return: { "sumType": "column", "columnName": "totalToken" }
- If the user mentions a column by letter (e.g., "D열 합계"), return: { "sumType": "column", "columnLetter": "D" }
- For a specific range sum, use: { "sourceRange": "A2:A10" }
- For adding the sum below the selection, use: { "addNewRow": true }
- average uses the same parameter rules as sum.

For format operation:
- If the user mentions number format (e.g., "숫자 형식", "숫자로"), return: { "numberFormat": "number" }
- If the user mentions currency/won format (e.g., "원화 형식", "통화 형식"), return: { "numberFormat": "currency" }
- For specific cells like "E101", use: { "range": "E101" }
- If the user mentions text color (e.g., "파란색으로", "빨간색 글자"), use: { "fontColor": "#0000FF" } (not backgroundColor)
- If the user mentions background/cell color (e.g., "배경색", "셀 색상"), use: { "backgroundColor": "#color" }
- Other format options: bold (굵게), italic (기울임), fontSize (글자 크기)
- Common colors: 파란색=#0000FF, 빨간색=#FF0000, 초록색=#00FF00, 노란색=#FFFF00, 검정색=#000000, 흰색=#FFFFFF

For sort operation:
- "column": column letter or header name, "order": "asc" or "desc". Default to "asc" when the user does not specify a direction.

For filter operation:
- "column": column letter or header name
- "condition": "greater_than", "less_than", "equals", "contains"
- "value": the comparison value. Numeric thresholds like "1000 이상" mean { "condition": "greater_than", "value": 1000 }.

For chart operation:
- "chartType": "bar", "line", "pie", "column", "scatter". Default to "bar" when the user does not specify a type.
- "sourceRange": the data range, "title": optional chart title

For conditional_format operation:
- "condition": "greater_than", "less_than", "equal_to", "text_contains", "not_empty", "empty"
- "value": the value to compare
- "backgroundColor": hex color
- "fontColor": hex color
- "bold": true/false

For translate operation:
- "targetLanguage": the language to translate cell contents into
- "sourceRange": optional range; default is the active range

For compress operation:
- "sourceRange": the column range whose empty rows are removed

For border_format operation:
- "range": target range, "style": "thin", "medium", "thick", "double", "edges": "all", "outline", "inner"

For remove_border operation:
- "range": target range; removes all borders when omitted and the active range is used

For insert/delete operations:
- "target": "row" or "column", "position": index or letter, "count": how many
`)

	b.WriteString("\nCurrent sheet context:\n")
	fmt.Fprintf(&b, "- Active range: %s\n", activeRangeAddress(sheetCtx))
	fmt.Fprintf(&b, "- Sheet dimensions: %d rows x %d columns\n", sheetCtx.LastRow, sheetCtx.LastColumn)
	fmt.Fprintf(&b, "- Headers: %s\n", headerList(sheetCtx.Headers))

	b.WriteString(`
Return JSON in one of these two formats. Use the single form for one action:
{
  "operation": "operation_name",
  "parameters": {
    // operation-specific parameters
  }
}

Use the array form only when the command implies multiple sequential steps:
{
  "operations": [
    { "operation": "operation_name", "parameters": { ... } }
  ]
}

Never return both "operation" and "operations" at the top level.`)

	return b.String()
}

var operationSummaries = map[string]string{
	model.OpMerge:             "Merge cells",
	model.OpSum:               "Sum values in a range or column",
	model.OpAverage:           "Calculate average",
	model.OpCount:             "Count cells (all, numbers only, or based on conditions)",
	model.OpFormat:            "Format cells (bold, italic, font color, background color, number format, etc.)",
	model.OpSort:              "Sort data",
	model.OpFilter:            "Filter data",
	model.OpInsert:            "Insert rows/columns",
	model.OpDelete:            "Delete rows/columns",
	model.OpFormula:           "Add custom formula",
	model.OpChart:             "Create chart",
	model.OpConditionalFormat: "Add conditional formatting",
	model.OpTranslate:         "Translate cell contents to another language",
	model.OpCompress:          "Remove empty rows in a specific column range",
	model.OpRemoveBorder:      "Remove cell borders",
	model.OpBorderFormat:      "Apply cell borders",
}

func activeRangeAddress(sheetCtx *model.SheetContext) string {
	if sheetCtx.ActiveRange == nil || sheetCtx.ActiveRange.Address == "" {
		return "unknown"
	}

	return sheetCtx.ActiveRange.Address
}

func headerList(headers []model.Header) string {
	if len(headers) == 0 {
		return "No headers"
	}

	parts := make([]string, 0, len(headers))
	for _, h := range headers {
		parts = append(parts, fmt.Sprintf("Column %s: %q", h.ColumnLetter, h.Label))
	}

	return strings.Join(parts, ", ")
}
