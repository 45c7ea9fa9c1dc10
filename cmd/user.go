package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"habit-tracker/backend/internal/server"
	"habit-tracker/backend/internal/services"
)

var (
	username string
	password string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with a bcrypt-hashed password",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, _, err := server.OpenStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := services.NewUserService(store).CreateUser(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&username, "username", "", "username (3-50 characters)")
	userCreateCmd.Flags().StringVar(&password, "password", "", "password (at least 8 characters)")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
