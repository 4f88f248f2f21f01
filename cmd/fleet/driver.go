package main

import (
	"fmt"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"

	"github.com/spf13/cobra"
)

// driver command
var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Manage drivers",
}

var driverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DriverList")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, d := range a.Drivers() {
			notes := ""
			if !d.PasswordChanged {
				notes += "  [default password]"
			}
			if d.ActiveVehicleID != "" {
				notes += "  [driving " + d.ActiveVehicleID + "]"
			}
			fmt.Printf("%s  %-12s  %-24s  CNH %-12s%s\n", d.ID, d.Username, d.Name, d.License, notes)
		}
		return nil
	},
}

var driverAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Register a driver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		license, _ := cmd.Flags().GetString("license")
		avatar, _ := cmd.Flags().GetString("avatar")

		a, err := newApp("DriverAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.AddDriver(model.Driver{Name: name, License: license, Username: args[0]})
		if err != nil {
			return err
		}
		if avatar != "" {
			if err := a.SetAvatar(d.ID, avatar); err != nil {
				return err
			}
		}

		fmt.Printf("Driver %s registered: %s\n", d.Username, d.ID)
		fmt.Println("Initial password is 123; it must be changed at first login.")
		return nil
	},
}

var driverUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a driver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var up fleet.DriverUpdate
		flags := cmd.Flags()
		for flag, field := range map[string]**string{
			"name":     &up.Name,
			"license":  &up.License,
			"username": &up.Username,
		} {
			if flags.Changed(flag) {
				s, _ := flags.GetString(flag)
				*field = &s
			}
		}
		avatar, _ := flags.GetString("avatar")
		resetPassword, _ := flags.GetBool("reset-password")

		a, err := newApp("DriverUpdate")
		if err != nil {
			return err
		}
		defer a.Close()

		if resetPassword {
			password, confirm, err := readNewPassword("New password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}
			up.Password = &password
		}

		if err := a.UpdateDriver(args[0], up); err != nil {
			return err
		}
		if avatar != "" {
			if err := a.SetAvatar(args[0], avatar); err != nil {
				return err
			}
		}
		fmt.Println("Driver updated.")
		return nil
	},
}

var driverDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a driver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DriverDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteDriver(args[0]); err != nil {
			return err
		}
		fmt.Println("Driver removed.")
		return nil
	},
}

func init() {
	driverCmd.AddCommand(driverListCmd)

	driverCmd.AddCommand(driverAddCmd)
	driverCmd.AddCommand(driverUpdateCmd)
	for _, c := range []*cobra.Command{driverAddCmd, driverUpdateCmd} {
		c.Flags().String("name", "", "Full name")
		c.Flags().String("license", "", "Driving license number")
		c.Flags().String("avatar", "", "Path to an image file")
	}
	driverUpdateCmd.Flags().String("username", "", "New username")
	driverUpdateCmd.Flags().Bool("reset-password", false, "Prompt for a new password")

	driverCmd.AddCommand(driverDeleteCmd)

	rootCmd.AddCommand(driverCmd)
}
