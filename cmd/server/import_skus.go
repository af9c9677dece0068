package main

import (
	"fmt"
	"os"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/catalog"
	"inventory-backend/internal/database"
	"inventory-backend/internal/importer"
	"inventory-backend/internal/models"

	"github.com/spf13/cobra"
)

var (
	importFile    string
	importCompany string
	importUserID  uint
)

var importSKUsCmd = &cobra.Command{
	Use:   "import-skus",
	Short: "Import SKUs of one company from an .xlsx sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close(db)

		var user models.User
		if err := db.Where("id = ? AND company_id = ?", importUserID, importCompany).First(&user).Error; err != nil {
			return fmt.Errorf("user %d of company %s: %w", importUserID, importCompany, err)
		}

		f, err := os.Open(importFile)
		if err != nil {
			return err
		}
		defer f.Close()

		sheet, err := importer.Read(f)
		if err != nil {
			return err
		}
		svc := catalog.NewService(db, nil)
		res, err := svc.ImportSKUs(cmd.Context(), auth.Principal{
			UserID:    user.ID,
			CompanyID: user.CompanyID,
			Role:      user.Role,
		}, sheet)
		if err != nil {
			return err
		}

		for _, e := range res.Errors {
			log.WithField("line", e.Line).Warn(e.Message)
		}
		fmt.Printf("imported: %d\nskipped:  %d\nerrors:   %d\n", res.Imported, res.Skipped, len(res.Errors))
		return nil
	},
}

func init() {
	importSKUsCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to the .xlsx file")
	importSKUsCmd.Flags().StringVar(&importCompany, "company", "", "company id")
	importSKUsCmd.Flags().UintVar(&importUserID, "user", 0, "id of the user recorded as importer")
	_ = importSKUsCmd.MarkFlagRequired("file")
	_ = importSKUsCmd.MarkFlagRequired("company")
	_ = importSKUsCmd.MarkFlagRequired("user")
}
