/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 16:42:18
 * @FilePath: \dashboard-catalog\backend\cmd\export-dashboards\main.go
 * @LastEditTime: 2026-10-15 12:11:03
 */
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"dashboard-catalog/backend/internal/app"
	"dashboard-catalog/backend/internal/config"
	domain "dashboard-catalog/backend/internal/domain/dashboard"
	"dashboard-catalog/backend/internal/infra/logger"
	"dashboard-catalog/backend/internal/repository"
	dashboardsvc "dashboard-catalog/backend/internal/service/dashboard"
)

var (
	category   = flag.String("category", "", "按分类精确过滤")
	clientName = flag.String("client", "", "按客户精确过滤")
	createdBy  = flag.String("created-by", "", "按创建人精确过滤")
	search     = flag.String("search", "", "按 topic 模糊匹配（不区分大小写）")
	output     = flag.String("output", "", "导出 JSON 文件路径，为空时写到标准输出")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run 返回进程退出码，失败时先释放连接并刷新日志再退出。
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return 1
	}

	zapLogger, err := logger.Init(logger.OptionsFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return 1
	}
	defer logger.Sync()
	sugar := zapLogger.Sugar().With("component", "export-dashboards")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources, err := app.InitResources(ctx, cfg, sugar)
	if err != nil {
		sugar.Errorw("init resources failed", "error", err)
		return 1
	}
	defer func() {
		if cerr := resources.Close(); cerr != nil {
			sugar.Warnw("close resources failed", "error", cerr)
		}
	}()

	schema, err := domain.SchemaFor(cfg.Variant)
	if err != nil {
		sugar.Errorw("resolve schema failed", "error", err)
		return 1
	}
	service := dashboardsvc.NewService(repository.NewDashboardRepository(resources.DB), schema)

	filter := domain.NewFilter(*category, *clientName, *createdBy, *search)
	count, err := exportDashboards(ctx, service, filter, *output)
	if err != nil {
		sugar.Errorw("export dashboards failed", "error", err)
		return 1
	}

	sugar.Infow("export dashboards completed", "count", count, "output", *output, "variant", schema.Variant, "filtered", !filter.IsEmpty())
	return 0
}

// exportDashboards 以 {"items": [...]} 的形式写出与列表接口一致的数据。
func exportDashboards(ctx context.Context, service *dashboardsvc.Service, filter domain.Filter, dest string) (int, error) {
	items, err := service.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	body, err := json.MarshalIndent(map[string]any{"items": items}, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal dashboards: %w", err)
	}
	body = append(body, '\n')

	if dest == "" {
		_, err = os.Stdout.Write(body)
		return len(items), err
	}

	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return 0, fmt.Errorf("write export file: %w", err)
	}
	return len(items), nil
}
