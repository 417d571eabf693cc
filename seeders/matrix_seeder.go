package seeders

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"hr-system/internal/authz"
	"hr-system/internal/repositories"
)

// SeedMatrix записывает матрицу по умолчанию. Без reset уже заполненную
// таблицу не трогает: правки admin не должны теряться при повторном запуске.
func SeedMatrix(ctx context.Context, repo repositories.AccessMatrixRepositoryInterface, reset bool) error {
	log.Println("▶️  Наполнение матрицы доступа...")

	m, err := authz.DefaultMatrix()
	if err != nil {
		return fmt.Errorf("матрица по умолчанию невалидна: %w", err)
	}

	if !reset {
		existing, err := repo.LoadAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Printf("  - В таблице уже %d ячеек. Пропускаем (используйте --reset для перезаписи).", len(existing))
			return nil
		}
	}

	if err := repo.ReplaceAll(ctx, m.Cells()); err != nil {
		return err
	}
	log.Println("✅ Матрица доступа записана")
	return nil
}

// PrintMatrix печатает матрицу таблицей: роль × раздел.
func PrintMatrix(w io.Writer, m *authz.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"РОЛЬ"}
	for _, f := range authz.Features() {
		header = append(header, f.String())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range authz.Roles() {
		row := []string{r.String()}
		for _, f := range authz.Features() {
			perms, _ := m.Lookup(r, f)
			if perms.Empty() {
				row = append(row, "-")
				continue
			}
			row = append(row, perms.String())
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
