/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 14:09:25
 * @FilePath: \dashboard-catalog\backend\cmd\export-dashboards\main_test.go
 * @LastEditTime: 2026-10-15 10:04:52
 */
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dashboard-catalog/backend/internal/config"
	domain "dashboard-catalog/backend/internal/domain/dashboard"
	"dashboard-catalog/backend/internal/infra/client"
	"dashboard-catalog/backend/internal/repository"
	dashboardsvc "dashboard-catalog/backend/internal/service/dashboard"
)

func TestExportDashboardsWritesFilteredItems(t *testing.T) {
	ctx := context.Background()
	db, err := client.OpenSQLite(filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := repository.NewDashboardRepository(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	service := dashboardsvc.NewService(repo, mustSchema(t, domain.VariantStandard))

	for _, category := range []string{"Sales", "Ops", "Sales"} {
		_, err := service.Create(ctx, dashboardsvc.Payload{
			"category":          category,
			"client":            "Acme",
			"created_by":        "alice",
			"last_updated_date": "2024-05-01",
			"updated_by":        "alice",
			"topic":             category + " board",
			"description":       "desc",
			"link":              "https://bi.example.com",
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	dest := filepath.Join(t.TempDir(), "out", "dashboards.json")
	count, err := exportDashboards(ctx, service, domain.NewFilter("Sales", "", "", ""), dest)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 exported items, got %d", count)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded.Items) != 2 {
		t.Fatalf("expected 2 items in file, got %d", len(decoded.Items))
	}
	for _, item := range decoded.Items {
		if item["category"] != "Sales" || item["last_updated_date"] != "2024-05-01" {
			t.Fatalf("unexpected item: %v", item)
		}
	}
}

// run 在资源已打开后失败时应返回退出码而不是直接退出进程，
// 否则本测试进程会被 os.Exit 终止。
func TestRunReturnsExitCodeAfterResourcesOpened(t *testing.T) {
	config.SetEnvFileLoadingForTest(false)
	t.Cleanup(func() { config.SetEnvFileLoadingForTest(true) })

	dir := t.TempDir()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ENDPOINT", "")
	t.Setenv("FRONTEND_ORIGIN", "*")
	t.Setenv("SCHEMA_VARIANT", "standard")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "empty.db"))
	t.Setenv("LOG_FILE", "")

	dest := filepath.Join(dir, "out.json")
	prev := *output
	*output = dest
	t.Cleanup(func() { *output = prev })

	// 未迁移的空库上列表查询失败。
	if code := run(); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("export file should not exist after failure, stat err=%v", err)
	}
}

func mustSchema(t *testing.T, v domain.Variant) domain.Schema {
	t.Helper()
	s, err := domain.SchemaFor(v)
	if err != nil {
		t.Fatalf("schema for %s: %v", v, err)
	}
	return s
}
