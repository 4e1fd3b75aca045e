package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/internal/db"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			ref, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, ref, &r))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "menu.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func sampleWorkbook(t *testing.T) string {
	return writeWorkbook(t, map[string][][]interface{}{
		sheetProducts: {
			{"category", "name", "description", "price", "image_url", "ingredients", "available"},
			{"Burgers", "Classic Burger", "Beef patty", "40", "", "onion, pickles", "y"},
			{"Sides", "Fries", "", "12", "", "", ""},
			{"Sides", "", "no name", "5", "", "", ""},
			{"Sides", "Broken", "", "abc", "", "", ""},
			{"Drinks", "Cola", "", "8", "", "", "n"},
		},
		sheetVariations: {
			{"product", "id", "name", "price"},
			{"Classic Burger", "regular", "Regular", "45"},
			{"Classic Burger", "large", "Large", "55"},
			{"Unknown", "x", "X", "1"},
		},
		sheetOptions: {
			{"product", "group_id", "group_name", "min", "max", "item_id", "item_name", "price", "available"},
			{"Classic Burger", "bread", "Bread", "1", "1", "brioche", "Brioche", "0", ""},
			{"Classic Burger", "bread", "Bread", "", "", "sesame", "Sesame", "2", ""},
			{"Classic Burger", "extras", "Extras", "0", "3", "cheese", "Cheese", "5", ""},
			{"Classic Burger", "extras", "Extras", "", "", "bacon", "Bacon", "7", "n"},
		},
	})
}

func TestReadMenuFromXLSX(t *testing.T) {
	menu, err := readMenuFromXLSX(sampleWorkbook(t), "brand-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Burgers", "Sides", "Drinks"}, menu.Categories)
	require.Len(t, menu.Products, 3)
	// 이름 없는 행, 잘못된 가격, 없는 상품의 variation
	assert.Equal(t, 3, menu.Skipped)

	burger := menu.Products[0].Product
	assert.Equal(t, "Burgers", menu.Products[0].Category)
	assert.Equal(t, "brand-1", burger.BrandID)
	assert.Equal(t, "40", burger.Price.String())
	assert.Equal(t, []string{"onion", "pickles"}, []string(burger.Ingredients))
	assert.True(t, burger.IsAvailable)

	require.Len(t, burger.Variations, 2)
	assert.Equal(t, "large", burger.Variations[1].ID)
	assert.Equal(t, "55", burger.Variations[1].Price.String())

	require.Len(t, burger.OptionGroups, 2)
	bread := burger.OptionGroups[0]
	assert.Equal(t, 1, bread.Min)
	assert.Equal(t, 1, bread.Max)
	assert.Len(t, bread.Items, 2)

	extras := burger.OptionGroups[1]
	assert.Equal(t, 0, extras.Min)
	assert.Equal(t, 3, extras.Max)
	require.Len(t, extras.Items, 2)
	assert.True(t, extras.Items[0].Available())
	assert.False(t, extras.Items[1].Available())

	fries := menu.Products[1].Product
	assert.Empty(t, fries.Ingredients)
	assert.True(t, fries.IsAvailable)

	assert.False(t, menu.Products[2].Product.IsAvailable)
}

func TestReadMenuFromXLSX_ProductsOnly(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetProducts: {
			{"category", "name", "description", "price"},
			{"Sides", "Fries", "", "12"},
		},
	})

	menu, err := readMenuFromXLSX(path, "")
	require.NoError(t, err)
	require.Len(t, menu.Products, 1)
	assert.Empty(t, menu.Products[0].Product.Variations)
	assert.Empty(t, menu.Products[0].Product.OptionGroups)
}

func TestReadMenuFromXLSX_NoProducts(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetProducts: {
			{"category", "name", "description", "price"},
		},
	})

	_, err := readMenuFromXLSX(path, "")
	assert.Error(t, err)
}

func TestImportMenu(t *testing.T) {
	logger.Initialize(logger.Config{Level: "warn", Output: io.Discard})

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := repository.NewProductRepository(testDB)
	menu, err := readMenuFromXLSX(sampleWorkbook(t), "brand-1")
	require.NoError(t, err)

	created, updated, err := importMenu(repo, menu)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, updated)

	burger, err := repo.FindByName("brand-1", "Classic Burger")
	require.NoError(t, err)
	require.NotNil(t, burger.CategoryID)
	assert.Len(t, burger.OptionGroups, 2)

	category, err := repo.FindCategoryByName("brand-1", "Sides")
	require.NoError(t, err)
	assert.Equal(t, 2, category.Rank)

	t.Run("re-import updates by name", func(t *testing.T) {
		menu.Products[1].Product.Price = menu.Products[1].Product.Price.Add(menu.Products[1].Product.Price)

		created, updated, err := importMenu(repo, menu)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 3, updated)

		fries, err := repo.FindByName("brand-1", "Fries")
		require.NoError(t, err)
		assert.Equal(t, "24", fries.Price.String())

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
