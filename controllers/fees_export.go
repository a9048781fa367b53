package controllers

import (
	"fmt"
	"strconv"

	"hostelhub_go/middleware"
	"hostelhub_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportVouchersXLSX streams a period's voucher listing as an Excel
// workbook for offline reconciliation.
func (fc *FeeController) ExportVouchersXLSX(c *fiber.Ctx) error {
	month := c.Params("month")
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return utils.BadRequest("Invalid year")
	}
	if !utils.IsValidMonth(month) {
		return utils.BadRequest("Invalid month name!")
	}

	rows, err := fc.billing.VouchersByMonth(month, year)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Vouchers"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return utils.Internal("Failed to build export")
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "Email", "Room No", "Amount", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		values := []interface{}{row.Name, row.Email, row.RoomNo, row.Amount, row.Status}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetColWidth(sheet, "A", "B", 28)
	f.SetColWidth(sheet, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return utils.Internal("Failed to build export")
	}

	middleware.LogActivity(c, "EXPORT", "vouchers", 0, fiber.Map{
		"month": month,
		"year":  year,
	})

	filename := fmt.Sprintf("vouchers-%s-%d.xlsx", month, year)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
