package main

import (
	"fmt"

	"foodgram/internal/utils/catalogfile"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/tag"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load catalog fixtures",
	Long: `Load ingredients or tags from a file. The format follows the extension:
.csv files hold name,measurement_unit (or name,slug) rows with an optional
header, .json files hold an array of objects.

Rows already present are skipped, so imports can be repeated.`,
}

var importIngredientsCmd = &cobra.Command{
	Use:   "ingredients <file>",
	Short: "Import ingredients",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportIngredients,
}

var importTagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "Import tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportTags,
}

func runImportIngredients(cmd *cobra.Command, args []string) error {
	f, format, err := catalogfile.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := catalogfile.ReadIngredients(f, format)
	if err != nil {
		return err
	}

	db, err := connect(false)
	if err != nil {
		return err
	}
	svc := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	created, err := svc.ImportIngredients(cmd.Context(), items)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d ingredients\n", created, len(items))
	return nil
}

func runImportTags(cmd *cobra.Command, args []string) error {
	f, format, err := catalogfile.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := catalogfile.ReadTags(f, format)
	if err != nil {
		return err
	}

	db, err := connect(false)
	if err != nil {
		return err
	}
	svc := tag.NewTagService(tag.NewTagRepository(db))
	created, err := svc.ImportTags(cmd.Context(), items)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d tags\n", created, len(items))
	return nil
}
