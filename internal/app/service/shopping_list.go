package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const shoppingListSheet = "Shopping list"

type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

// ShoppingList is the user's cart summed per (ingredient name, unit).
type ShoppingList struct {
	Username string             `json:"username"`
	Items    []ShoppingListItem `json:"items"`
}

func (l *ShoppingList) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n", l.Username)
	for _, item := range l.Items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}

// XLSX renders the list as a single-sheet workbook with a header row.
func (l *ShoppingList) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), shoppingListSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]interface{}{{"Ingredient", "Amount", "Unit"}}
	for _, item := range l.Items {
		rows = append(rows, []interface{}{item.Name, item.Amount, item.MeasurementUnit})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(shoppingListSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
