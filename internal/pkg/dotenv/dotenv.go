package dotenv

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load подгружает .env (или указанные файлы) в окружение процесса.
// Уже выставленные переменные не перетираются.
func Load(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// OverridePort флаг -port важнее PORT из окружения и .env.
func OverridePort(port string) error {
	if port == "" {
		return nil
	}
	if err := os.Setenv("PORT", port); err != nil {
		return fmt.Errorf("failed to set PORT environment variable: %w", err)
	}
	return nil
}
