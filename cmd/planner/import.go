package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"recipe-planner/internal/core/recipe/repository"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	columnDish     = "Dish name"
	columnQuantity = "Quantity"
	columnUnit     = "Unit of Measure"
	columnName     = "Ingredients"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk import recipes from a CSV file into MongoDB",
	Long: `Reads rows of "Dish name, Quantity, Unit of Measure, Ingredients". Rows without a quantity
become spices; rows with a numeric quantity become main ingredients. MongoDB settings come
from the same environment as the API server (MONGODB_URI, DATABASE_NAME).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		clear, _ := cmd.Flags().GetBool("clear")

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()

		recipes, err := parseRecipeCSV(f)
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Mongo.Timeout)
		defer cancel()
		store, err := repository.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		ctx, cancelImport := context.WithTimeout(cmd.Context(), 5*cfg.Mongo.Timeout)
		defer cancelImport()
		n, err := store.Recipes().Import(ctx, recipes, clear)
		if err != nil {
			return err
		}
		if err := store.Recipes().EnsureIndexes(ctx); err != nil {
			return err
		}

		common.LogInfo("Recipes imported", zap.Int("count", n), zap.Bool("cleared", clear))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes\n", n)
		return nil
	},
}

func init() {
	importCmd.Flags().String("file", "data/grocery_list.csv", "CSV file to import")
	importCmd.Flags().Bool("clear", false, "Delete existing recipes before importing")
}

// parseRecipeCSV 依菜名分組；沒有數量者為香料（去重），數量非數字者略過
func parseRecipeCSV(r io.Reader) ([]common.RecipeInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{columnDish, columnQuantity, columnUnit, columnName} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}
	field := func(record []string, column string) string {
		i := columns[column]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		order   []string
		recipes = make(map[string]*common.RecipeInput)
		line    = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		dish := field(record, columnDish)
		if dish == "" {
			continue
		}
		recipe, ok := recipes[dish]
		if !ok {
			recipe = &common.RecipeInput{
				Name:            dish,
				MainIngredients: []common.Ingredient{},
				Spices:          []string{},
				Servings:        common.DefaultServings,
			}
			recipes[dish] = recipe
			order = append(order, dish)
		}

		name := field(record, columnName)
		if name == "" {
			continue
		}

		quantity := field(record, columnQuantity)
		if quantity == "" {
			if !containsString(recipe.Spices, name) {
				recipe.Spices = append(recipe.Spices, name)
			}
			continue
		}

		v, ok := common.Quantity(quantity).Float()
		if !ok {
			continue
		}
		unit := field(record, columnUnit)
		if unit == "" {
			unit = "piece"
		}
		recipe.MainIngredients = append(recipe.MainIngredients, common.Ingredient{
			Name:     name,
			Quantity: common.NewQuantity(v),
			Unit:     unit,
		})
	}

	out := make([]common.RecipeInput, 0, len(order))
	for _, dish := range order {
		out = append(out, *recipes[dish])
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
