// Package importer reads SKU master data from an Excel workbook.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventory-backend/internal/apperror"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Field string

const (
	FieldItemName        Field = "itemName"
	FieldModelNumber     Field = "modelNumber"
	FieldHSNCode         Field = "hsnCode"
	FieldUnit            Field = "unit"
	FieldVendor          Field = "vendor"
	FieldBrand           Field = "brand"
	FieldProductCategory Field = "productCategory"
	FieldItemCategory    Field = "itemCategory"
	FieldSubCategory     Field = "subCategory"
	FieldUnitPrice       Field = "unitPrice"
	FieldGSTRate         Field = "gstRate"
	FieldMinStockLevel   Field = "minStockLevel"
	FieldOpeningStock    Field = "openingStock"
)

// headerAliases is matched top to bottom; the first field claiming a header
// wins. Comparison is case-insensitive after trimming.
var headerAliases = []struct {
	field   Field
	aliases []string
}{
	{FieldItemName, []string{"item name", "itemname", "name", "product name", "description"}},
	{FieldModelNumber, []string{"model number", "modelnumber", "model no", "model"}},
	{FieldHSNCode, []string{"hsn code", "hsncode", "hsn"}},
	{FieldUnit, []string{"unit", "uom"}},
	{FieldVendor, []string{"vendor", "vendor name", "supplier"}},
	{FieldBrand, []string{"brand", "brand name", "make"}},
	{FieldProductCategory, []string{"product category", "productcategory", "category"}},
	{FieldItemCategory, []string{"item category", "itemcategory"}},
	{FieldSubCategory, []string{"sub category", "subcategory", "sub-category"}},
	{FieldUnitPrice, []string{"unit price", "unitprice", "price", "rate"}},
	{FieldGSTRate, []string{"gst rate", "gstrate", "gst", "gst %"}},
	{FieldMinStockLevel, []string{"min stock level", "minstocklevel", "min stock", "reorder level"}},
	{FieldOpeningStock, []string{"opening stock", "openingstock", "current stock", "stock"}},
}

var requiredFields = []Field{FieldItemName}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Field {
	index := make(map[string]Field)
	for _, entry := range headerAliases {
		for _, a := range entry.aliases {
			key := normalize(a)
			if owner, ok := index[key]; ok {
				panic(fmt.Sprintf("importer: header %q mapped to both %s and %s", a, owner, entry.field))
			}
			index[key] = entry.field
		}
	}
	return index
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Row is one data line of the sheet. Line is the 1-based sheet row number.
type Row struct {
	Line            int
	ItemName        string
	ModelNumber     string
	HSNCode         string
	Unit            string
	Vendor          string
	Brand           string
	ProductCategory string
	ItemCategory    string
	SubCategory     string
	UnitPrice       decimal.Decimal
	GSTRate         decimal.Decimal
	MinStockLevel   int
	OpeningStock    int
}

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Sheet is the parsed workbook: valid rows plus the lines that failed to parse.
type Sheet struct {
	Rows   []Row
	Errors []RowError
}

// MapHeader resolves the header row to column positions. A missing required
// column is a validation error.
func MapHeader(header []string) (map[Field]int, error) {
	columns := make(map[Field]int)
	for i, h := range header {
		field, ok := aliasIndex[normalize(h)]
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}
	var missing []string
	for _, f := range requiredFields {
		if _, ok := columns[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, apperror.Validation("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// Read parses the first sheet of an .xlsx workbook.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.Validation("unable to open Excel file: %v", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, apperror.Validation("workbook has no sheets")
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, apperror.Validation("sheet %s is empty", name)
	}
	return Parse(rows)
}

// Parse maps raw cell rows, the first being the header.
func Parse(rows [][]string) (*Sheet, error) {
	columns, err := MapHeader(rows[0])
	if err != nil {
		return nil, err
	}
	sheet := &Sheet{}
	for i, cells := range rows[1:] {
		line := i + 2
		if blank(cells) {
			continue
		}
		row, err := parseRow(columns, cells, line)
		if err != nil {
			sheet.Errors = append(sheet.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func parseRow(columns map[Field]int, cells []string, line int) (Row, error) {
	cell := func(f Field) string {
		i, ok := columns[f]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	row := Row{
		Line:            line,
		ItemName:        cell(FieldItemName),
		ModelNumber:     cell(FieldModelNumber),
		HSNCode:         cell(FieldHSNCode),
		Unit:            cell(FieldUnit),
		Vendor:          cell(FieldVendor),
		Brand:           cell(FieldBrand),
		ProductCategory: cell(FieldProductCategory),
		ItemCategory:    cell(FieldItemCategory),
		SubCategory:     cell(FieldSubCategory),
	}
	if row.ItemName == "" {
		return row, fmt.Errorf("%s is required", FieldItemName)
	}
	if row.SubCategory != "" && row.ItemCategory == "" {
		return row, fmt.Errorf("%s needs %s", FieldSubCategory, FieldItemCategory)
	}
	if row.ItemCategory != "" && row.ProductCategory == "" {
		return row, fmt.Errorf("%s needs %s", FieldItemCategory, FieldProductCategory)
	}

	var err error
	if row.UnitPrice, err = decimalCell(FieldUnitPrice, cell(FieldUnitPrice)); err != nil {
		return row, err
	}
	if row.GSTRate, err = decimalCell(FieldGSTRate, strings.TrimSuffix(cell(FieldGSTRate), "%")); err != nil {
		return row, err
	}
	if row.MinStockLevel, err = intCell(FieldMinStockLevel, cell(FieldMinStockLevel)); err != nil {
		return row, err
	}
	if row.OpeningStock, err = intCell(FieldOpeningStock, cell(FieldOpeningStock)); err != nil {
		return row, err
	}
	return row, nil
}

func decimalCell(f Field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s %q is not a valid amount", f, s)
	}
	return d, nil
}

func intCell(f Field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// whole numbers typed into number cells come back as "12.0"
		d, derr := decimal.NewFromString(s)
		if derr != nil || !d.Equal(d.Truncate(0)) {
			return 0, fmt.Errorf("%s %q is not a whole number", f, s)
		}
		n = int(d.IntPart())
	}
	if n < 0 {
		return 0, fmt.Errorf("%s cannot be negative", f)
	}
	return n, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
