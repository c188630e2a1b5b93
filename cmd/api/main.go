package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/vimtodo/core/cmd/api/commands"
)

// @title vimtodo API
// @version 1.0
// @description Tasks, notes and completion statistics for the vimtodo editor

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:           "vimtodo",
		Short:         "vimtodo API server",
		Long:          `vimtodo keeps tasks, notes and completion history for a vim-flavoured productivity editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
