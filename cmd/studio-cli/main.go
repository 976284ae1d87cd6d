// Package main 工作室命令行入口
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"veo-prompt-studio/internal/app"
	"veo-prompt-studio/internal/application/studio"
	"veo-prompt-studio/internal/config"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/infrastructure/clipboard"
	"veo-prompt-studio/pkg/logger"
)

var (
	language string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "studio-cli",
	Short:         "Turn a topic into a scene script and Veo shot prompts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "lang", "l", "", "output language: english | vietnamese (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadApp 加载配置并组装应用；日志写到 stderr，stdout 只输出结果
func loadApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger.InitWithWriter(os.Stderr, logLevel, "text")
	return app.New(ctx, cfg, app.Options{})
}

// newSession 创建一次性会话
func newSession(a *app.App) *studio.Session {
	return a.Sessions.Create(language)
}

// readInput 读取文件内容；路径为空或 "-" 时读取标准输入
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// writeOutput 写到文件或标准输出
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

// copySlot 将槽位已保存内容写入系统剪贴板
func copySlot(cmd *cobra.Command, s *studio.Session, kind entity.ArtifactKind) error {
	if !clipboard.Available() {
		fmt.Fprintln(cmd.ErrOrStderr(), "clipboard is not available on this system")
		return nil
	}
	if _, err := s.Copy(cmd.Context(), kind, clipboard.System{}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
	return nil
}

func strPtr(s string) *string {
	s = strings.TrimRight(s, "\r\n")
	return &s
}
