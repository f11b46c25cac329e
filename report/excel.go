// Package report renders the participation ledger as an xlsx workbook.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"auctioneer/models"
)

// SheetName is the single worksheet every generated workbook contains.
const SheetName = "Auction Report"

const timeLayout = "2006-01-02 15:04:05"

var header = []any{"Bid ID", "Title", "User ID", "Username", "Amount", "Bid Time"}

// Build renders the rows into an in-memory xlsx workbook. One spreadsheet row
// per recorded bid, in the order the rows were queried.
func Build(rows []*models.ReportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		amount, _ := row.Amount.Float64()
		values := []any{
			row.AuctionID,
			row.Title,
			row.SubscriberID,
			row.DisplayName,
			amount,
			row.PlacedAt.Format(timeLayout),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write report row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report workbook: %w", err)
	}
	return buf, nil
}

// Filename returns the attachment name for a report covering the trailing
// number of months.
func Filename(monthsBack int) string {
	return fmt.Sprintf("Auction_Report_Last_%d_Month.xlsx", monthsBack)
}
