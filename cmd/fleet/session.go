package main

import (
	"errors"
	"fmt"

	"fleet-go/internal/fleet"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login USERNAME",
	Short: "Start a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Login")
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		d, err := a.Login(args[0], password)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", d.Name, d.Username)
		if !d.PasswordChanged {
			fmt.Println("You are using the default password. Run 'fleet passwd' to change it.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Logout")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("WhoAmI")
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Current()
		if errors.Is(err, fleet.ErrNoSession) {
			fmt.Println("Not logged in.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", d.Name, d.Username)
		if d.ID == fleet.AdminID {
			fmt.Println("Role: manager")
		}
		if d.ActiveVehicleID != "" {
			fmt.Printf("Active vehicle: %s\n", d.ActiveVehicleID)
		}
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password of the logged-in driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ChangePassword")
		if err != nil {
			return err
		}
		defer a.Close()

		password, confirm, err := readNewPassword("New password: ")
		if err != nil {
			return err
		}
		if err := a.ChangePassword(password, confirm); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwdCmd)
}
