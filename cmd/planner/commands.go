package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"recipe-planner/internal/core/grocery"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recipes by name, ingredient, spice or cuisine",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		searcher := newSearcher(newClient().Search, &cfg.Planner)

		query := strings.Join(args, " ")
		if len([]rune(strings.TrimSpace(query))) < searcher.MinLength() {
			return fmt.Errorf("query must be at least %d characters", searcher.MinLength())
		}
		recipes, err := searcher.Query(cmd.Context(), query)
		if err != nil {
			return err
		}
		return printRecipes(cmd.OutOrStdout(), recipes)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored recipes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		recipes, err := newClient().ListAll(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printRecipes(cmd.OutOrStdout(), recipes)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recipe with its ingredients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := newClient().FetchDetail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		recipe := grocery.Normalize(raw)
		printRecipe(cmd.OutOrStdout(), &recipe)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <dish name>",
	Short: "Generate a recipe for 8 servings and store it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := newClient()
		generated, err := api.Generate(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(generated.MainIngredients) == 0 {
			return grocery.ErrGenerationFailed
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); !dryRun {
			created, err := api.Create(cmd.Context(), generated)
			if err != nil {
				return err
			}
			printRecipe(cmd.OutOrStdout(), created)
			return nil
		}

		recipe := grocery.Normalize(&grocery.RawRecipe{
			Name:            generated.Name,
			Cuisine:         generated.Cuisine,
			Difficulty:      string(generated.Difficulty),
			MainIngredients: rawIngredients(generated.MainIngredients),
			Spices:          rawSpices(generated.Spices),
			Servings:        generated.Servings,
		})
		printRecipe(cmd.OutOrStdout(), &recipe)
		return nil
	},
}

var groceriesCmd = &cobra.Command{
	Use:   "groceries <id>...",
	Short: "Select up to four recipes and print one consolidated checklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		dishes, _ := cmd.Flags().GetStringSlice("generate")
		if len(args) == 0 && len(dishes) == 0 {
			return errors.New("at least one recipe id or --generate dish is required")
		}
		maxSelection, _ := cmd.Flags().GetInt("max")

		api := newClient()
		planner := grocery.NewPlanner(api,
			grocery.WithLogger(logger),
			grocery.WithGenerator(api),
			grocery.WithMaxSelection(maxSelection),
			grocery.WithFetchTimeout(settings.GetDuration("timeout")),
		)

		stderr := cmd.ErrOrStderr()
		for _, id := range args {
			if err := planner.Select(cmd.Context(), id); err != nil {
				reportSelectError(stderr, id, err)
				if errors.Is(err, common.ErrAuthRequired) {
					return err
				}
			}
		}
		for _, dish := range dishes {
			if _, err := planner.GenerateAndSelect(cmd.Context(), dish); err != nil {
				reportSelectError(stderr, dish, err)
			}
		}

		if len(planner.Selected()) == 0 {
			return errors.New("no recipes selected")
		}

		out := cmd.OutOrStdout()
		for _, r := range planner.Selected() {
			fmt.Fprintf(out, "# %s\n", r.Name)
		}
		fmt.Fprintln(out)
		return planner.Render(out)
	},
}

func init() {
	listCmd.Flags().Int("limit", 0, "Maximum number of recipes (server default when 0)")
	generateCmd.Flags().Bool("dry-run", false, "Print the generated recipe without storing it")
	groceriesCmd.Flags().StringSlice("generate", nil, "Generate, store and select these dishes as well")
	groceriesCmd.Flags().Int("max", grocery.DefaultMaxSelection, "Maximum number of selected recipes")
}

// newSearcher 依 planner 設定的最短查詢長度與靜默時間建立搜尋器
func newSearcher(search grocery.SearchFunc, cfg *config.PlannerConfig) *grocery.Searcher {
	return grocery.NewSearcher(search, cfg.MinQueryLength, cfg.SearchDebounce)
}

// reportSelectError 顯示選取失敗的原因，選取狀態不變
func reportSelectError(w io.Writer, what string, err error) {
	switch {
	case errors.Is(err, grocery.ErrCapacityExceeded):
		fmt.Fprintf(w, "skipped %s: %v\n", what, common.ErrCapacityExceeded.Message)
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintf(w, "skipped %s: recipe not found\n", what)
	case errors.Is(err, grocery.ErrGenerationFailed):
		fmt.Fprintf(w, "skipped %s: failed to generate recipe\n", what)
	default:
		fmt.Fprintf(w, "skipped %s: %v\n", what, err)
	}
	logger.Debug("Selection failed", zap.String("target", what), zap.Error(err))
}

func printRecipes(w io.Writer, recipes []common.Recipe) error {
	if len(recipes) == 0 {
		_, err := fmt.Fprintln(w, "no recipes found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCUISINE\tDIFFICULTY\tINGREDIENTS")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Name, r.Cuisine, r.Difficulty, len(r.MainIngredients)+len(r.Spices))
	}
	return tw.Flush()
}

func printRecipe(w io.Writer, r *common.Recipe) {
	fmt.Fprintf(w, "%s (%s, %s, serves %d)\n", r.Name, r.Cuisine, r.Difficulty, r.Servings)
	if r.ID != "" {
		fmt.Fprintf(w, "id: %s\n", r.ID)
	}
	for _, ing := range r.MainIngredients {
		fmt.Fprintf(w, "  - %s: %s %s\n", ing.Name, ing.Quantity, ing.Unit)
	}
	if len(r.Spices) > 0 {
		fmt.Fprintf(w, "  spices: %s\n", strings.Join(r.Spices, ", "))
	}
}

func rawIngredients(in []common.Ingredient) []grocery.RawIngredient {
	out := make([]grocery.RawIngredient, 0, len(in))
	for _, ing := range in {
		out = append(out, grocery.RawIngredient(ing))
	}
	return out
}

func rawSpices(in []string) []grocery.RawSpice {
	out := make([]grocery.RawSpice, 0, len(in))
	for _, s := range in {
		out = append(out, grocery.RawSpice(s))
	}
	return out
}
