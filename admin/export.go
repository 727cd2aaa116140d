package admin

import (
	"context"
	"io"

	"github.com/tealeg/xlsx"
)

// ExportProductsXLSX writes the full catalog as an Excel sheet.
func (m *Manager) ExportProductsXLSX(ctx context.Context, w io.Writer) error {
	if err := m.ensure(); err != nil {
		return err
	}
	products := m.catalog.ListAll(ctx)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"ID", "Name", "Price", "Category", "Description", "ScentNotes", "ImageURL", "CreatedAt", "UpdatedAt"} {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.ScentNotes)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.CreatedAt)
		row.AddCell().SetValue(p.UpdatedAt)
	}

	return file.Write(w)
}

// ExportOrdersXLSX writes every order as an Excel sheet.
func (m *Manager) ExportOrdersXLSX(ctx context.Context, w io.Writer) error {
	if err := m.ensure(); err != nil {
		return err
	}
	orders, err := m.orders.AllOrders(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"ID", "UserID", "TotalAmount", "Status", "CreatedAt", "UpdatedAt"} {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.UserID)
		row.AddCell().SetValue(o.TotalAmount)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.CreatedAt)
		row.AddCell().SetValue(o.UpdatedAt)
	}

	return file.Write(w)
}
