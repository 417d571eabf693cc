package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/repositories"
	"hr-system/pkg/config"
	"hr-system/pkg/database/postgresql"
	applogger "hr-system/pkg/logger"
	"hr-system/seeders"
)

var (
	resetMatrix   bool
	adminLogin    string
	adminPassword string
	adminName     string
)

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "🌱 Наполнение БД: матрица доступа и первый администратор",
	SilenceErrors: true,
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Записать матрицу доступа по умолчанию",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()
		db := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
		defer db.Close()

		repo := repositories.NewAccessMatrixRepository(db, logger)
		return seeders.SeedMatrix(cmd.Context(), repo, resetMatrix)
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Создать пользователя с ролью admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()
		db := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
		defer db.Close()

		repo := repositories.NewUserRepository(db, logger)
		_, err := seeders.SeedAdmin(cmd.Context(), repo, adminLogin, adminPassword, adminName)
		return err
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Проверить встроенную матрицу доступа и вывести её",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := authz.DefaultMatrix()
		if err != nil {
			return fmt.Errorf("матрица по умолчанию невалидна: %w", err)
		}
		if err := seeders.PrintMatrix(cmd.OutOrStdout(), m); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Матрица полная")
		return nil
	},
}

func setup() (*config.Config, *zap.Logger) {
	cfg := config.New()
	return cfg, applogger.NewLogger(cfg.Log.Level, "")
}

func init() {
	matrixCmd.Flags().BoolVar(&resetMatrix, "reset", false, "перезаписать матрицу, даже если она уже заполнена")

	adminCmd.Flags().StringVar(&adminLogin, "login", "", "email администратора (обязательно)")
	adminCmd.Flags().StringVar(&adminPassword, "password", "", "пароль, не короче 8 символов (обязательно)")
	adminCmd.Flags().StringVar(&adminName, "name", "Администратор", "ФИО")
	cobra.CheckErr(adminCmd.MarkFlagRequired("login"))
	cobra.CheckErr(adminCmd.MarkFlagRequired("password"))

	rootCmd.AddCommand(matrixCmd, adminCmd, checkCmd)
	rootCmd.SetContext(context.Background())
	rootCmd.SetOut(os.Stdout)
}
