/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 08:51:30
 * @FilePath: \dashboard-catalog\backend\internal\config\env_loader.go
 * @LastEditTime: 2026-10-14 08:51:30
 */
package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce     sync.Once
	envOnceLock sync.Mutex
	skipEnvLoad bool
)

// LoadEnvFiles 保证 .env.local 与 .env 只加载一次，CONFIG_ENV_FILE 可指定额外文件。
func LoadEnvFiles() {
	envOnceLock.Lock()
	defer envOnceLock.Unlock()

	if skipEnvLoad || os.Getenv("CONFIG_SKIP_ENV_LOAD") == "1" {
		return
	}

	envOnce.Do(func() {
		// 后加载的文件覆盖前面的同名变量，因此 .env.local 放在最后。
		candidates := []string{".env", ".env.local"}
		for _, name := range candidates {
			if path, ok := findEnvFile(name); ok {
				loadFile(path)
			}
		}
		if explicit := strings.TrimSpace(os.Getenv("CONFIG_ENV_FILE")); explicit != "" {
			loadFile(explicit)
		}
	})
}

// SetEnvFileLoadingForTest 切换自动加载 env 文件的行为，仅供测试使用。
func SetEnvFileLoadingForTest(enabled bool) {
	envOnceLock.Lock()
	defer envOnceLock.Unlock()

	skipEnvLoad = !enabled
	envOnce = sync.Once{}
}

func loadFile(path string) {
	if err := godotenv.Overload(path); err != nil {
		log.Printf("[config] skip environment file %s: %v", path, err)
		return
	}
	log.Printf("[config] loaded environment file: %s", path)
}

// findEnvFile 从当前目录逐级向上查找指定文件。
func findEnvFile(name string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
