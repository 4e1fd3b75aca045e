package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/internal/db"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/seed/main.go <menu.xlsx> [-y]")
		os.Exit(2)
	}
	filePath := os.Args[1]
	skipConfirm := len(os.Args) > 2 && os.Args[2] == "-y"

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	// XLSX 파일 읽기
	fmt.Printf("Reading menu workbook: %s\n", filePath)
	menu, err := readMenuFromXLSX(filePath, cfg.Store.BrandID)
	if err != nil {
		logger.Fatal("Failed to read XLSX", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Categories: %d\n", len(menu.Categories))
	fmt.Printf("  Products: %d\n", len(menu.Products))
	fmt.Printf("  Skipped rows: %d\n", menu.Skipped)

	if !skipConfirm {
		// 사용자 확인
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	// 데모 메뉴 시드 없이 테이블만 생성
	if err := db.GetDB().AutoMigrate(db.Models()...); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	created, updated, err := importMenu(repository.NewProductRepository(db.GetDB()), menu)
	if err != nil {
		logger.Fatal("Failed to import menu", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Products created: %d\n", created)
	fmt.Printf("  Products updated: %d\n", updated)
}

// importMenu upserts categories and products by name within the brand.
func importMenu(repo repository.ProductRepository, menu *Menu) (created, updated int, err error) {
	categoryIDs := make(map[string]string, len(menu.Categories))
	for i, name := range menu.Categories {
		category, err := repo.FindCategoryByName(menu.BrandID, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			category = &model.Category{BrandID: menu.BrandID, Name: name, Rank: i + 1}
			if err := repo.CreateCategory(category); err != nil {
				return created, updated, fmt.Errorf("create category %q: %w", name, err)
			}
		} else if err != nil {
			return created, updated, err
		}
		categoryIDs[name] = category.ID
	}

	for _, row := range menu.Products {
		product := row.Product
		if id, ok := categoryIDs[row.Category]; ok {
			product.CategoryID = &id
		}

		existing, err := repo.FindByName(menu.BrandID, product.Name)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := repo.Create(&product); err != nil {
				return created, updated, fmt.Errorf("create product %q: %w", product.Name, err)
			}
			created++
		case err != nil:
			return created, updated, err
		default:
			product.ID = existing.ID
			product.CreatedAt = existing.CreatedAt
			if err := repo.Update(&product); err != nil {
				return created, updated, fmt.Errorf("update product %q: %w", product.Name, err)
			}
			updated++
		}
	}
	return created, updated, nil
}
