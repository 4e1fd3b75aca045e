package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// 시트 이름
const (
	sheetProducts   = "products"
	sheetVariations = "variations"
	sheetOptions    = "options"
)

// Menu is the parsed workbook. Categories keep first-appearance order,
// which becomes their rank.
type Menu struct {
	BrandID    string
	Categories []string
	Products   []ProductRow
	Skipped    int
}

type ProductRow struct {
	Category string
	Product  model.Product
}

// readMenuFromXLSX reads three sheets:
//
//	products:   category | name | description | price | image_url | ingredients | available
//	variations: product | id | name | price
//	options:    product | group_id | group_name | min | max | item_id | item_name | price | available
//
// The first row of every sheet is a header. ingredients is comma separated.
// variations and options are optional sheets.
func readMenuFromXLSX(filePath, brandID string) (*Menu, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", sheetProducts, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no products found in XLSX file")
	}

	menu := &Menu{BrandID: brandID}
	seenCategories := make(map[string]bool)
	index := make(map[string]int) // product name -> menu.Products index

	for i, row := range rows {
		if i == 0 {
			continue
		}
		category := cell(row, 0)
		name := cell(row, 1)
		price, err := decimal.NewFromString(cell(row, 3))
		if name == "" || err != nil || price.IsNegative() {
			menu.Skipped++
			continue
		}
		if _, dup := index[name]; dup {
			menu.Skipped++
			continue
		}

		if category != "" && !seenCategories[category] {
			seenCategories[category] = true
			menu.Categories = append(menu.Categories, category)
		}

		index[name] = len(menu.Products)
		menu.Products = append(menu.Products, ProductRow{
			Category: category,
			Product: model.Product{
				BrandID:     brandID,
				Name:        name,
				Description: cell(row, 2),
				Price:       price,
				ImageURL:    cell(row, 4),
				Ingredients: splitList(cell(row, 5)),
				IsAvailable: parseBool(cell(row, 6), true),
			},
		})
	}

	if err := readVariations(f, menu, index); err != nil {
		return nil, err
	}
	if err := readOptions(f, menu, index); err != nil {
		return nil, err
	}
	return menu, nil
}

func readVariations(f *excelize.File, menu *Menu, index map[string]int) error {
	if idx, _ := f.GetSheetIndex(sheetVariations); idx < 0 {
		return nil
	}
	rows, err := f.GetRows(sheetVariations)
	if err != nil {
		return fmt.Errorf("failed to read %s sheet: %w", sheetVariations, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		pi, ok := index[cell(row, 0)]
		price, err := decimal.NewFromString(cell(row, 3))
		if !ok || cell(row, 1) == "" || err != nil {
			menu.Skipped++
			continue
		}
		p := &menu.Products[pi].Product
		p.Variations = append(p.Variations, model.Variation{
			ID:    cell(row, 1),
			Name:  cell(row, 2),
			Price: price,
		})
	}
	return nil
}

func readOptions(f *excelize.File, menu *Menu, index map[string]int) error {
	if idx, _ := f.GetSheetIndex(sheetOptions); idx < 0 {
		return nil
	}
	rows, err := f.GetRows(sheetOptions)
	if err != nil {
		return fmt.Errorf("failed to read %s sheet: %w", sheetOptions, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		pi, ok := index[cell(row, 0)]
		groupID := cell(row, 1)
		itemID := cell(row, 5)
		if !ok || groupID == "" || itemID == "" {
			menu.Skipped++
			continue
		}
		price := decimal.Zero
		if raw := cell(row, 7); raw != "" {
			if price, err = decimal.NewFromString(raw); err != nil {
				menu.Skipped++
				continue
			}
		}

		p := &menu.Products[pi].Product
		group, found := p.FindOptionGroup(groupID)
		if !found {
			// min/max는 그룹의 첫 행에서만 읽는다
			minSel, _ := strconv.Atoi(cell(row, 3))
			maxSel, _ := strconv.Atoi(cell(row, 4))
			if maxSel < 1 {
				maxSel = 1
			}
			if minSel < 0 {
				minSel = 0
			}
			p.OptionGroups = append(p.OptionGroups, model.OptionGroup{
				ID:   groupID,
				Name: cell(row, 2),
				Min:  minSel,
				Max:  maxSel,
			})
			group = &p.OptionGroups[len(p.OptionGroups)-1]
		}

		item := model.OptionItem{ID: itemID, Name: cell(row, 6), Price: price}
		if raw := cell(row, 8); raw != "" {
			available := parseBool(raw, true)
			item.IsAvailable = &available
		}
		group.Items = append(group.Items, item)
	}
	return nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func splitList(raw string) model.StringArray {
	out := model.StringArray{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "y", "yes", "true", "1", "o":
		return true
	case "n", "no", "false", "0", "x":
		return false
	}
	return fallback
}
