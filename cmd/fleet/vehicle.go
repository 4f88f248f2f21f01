package main

import (
	"fmt"

	"fleet-go/internal/app"
	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/rodizio"

	"github.com/spf13/cobra"
)

// vehicle command
var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Manage vehicles",
}

var vehicleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")

		a, err := newApp("VehicleList")
		if err != nil {
			return err
		}
		defer a.Close()

		vehicles := a.Vehicles(app.VehicleFilter{Search: search, Status: model.VehicleStatus(status)})
		if len(vehicles) == 0 {
			fmt.Println("No vehicles found.")
			return nil
		}

		today := a.Today()
		for _, v := range vehicles {
			flag := ""
			if rodizio.IsRestricted(v.Plate, today) {
				flag = "  [rodízio today]"
			}
			fmt.Printf("%s  %-8s  %-10s %-14s %4d  %7d km  %3d%%  %-11s%s\n",
				v.ID, v.Plate, v.Brand, v.Model, v.Year, v.CurrentKm, v.FuelLevel, v.Status, flag)
		}
		return nil
	},
}

var vehicleAddCmd = &cobra.Command{
	Use:   "add PLATE",
	Short: "Register a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brand, _ := cmd.Flags().GetString("brand")
		modelName, _ := cmd.Flags().GetString("model")
		year, _ := cmd.Flags().GetInt("year")
		km, _ := cmd.Flags().GetInt("km")
		fuel, _ := cmd.Flags().GetString("fuel-type")
		level, _ := cmd.Flags().GetInt("fuel-level")

		a, err := newApp("VehicleAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.AddVehicle(model.Vehicle{
			Plate:     args[0],
			Brand:     brand,
			Model:     modelName,
			Year:      year,
			CurrentKm: km,
			FuelType:  model.FuelType(fuel),
			FuelLevel: level,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Vehicle %s registered: %s (%s)\n", v.Plate, v.ID, rodizio.RestrictionLabel(v.Plate))
		return nil
	},
}

var vehicleUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var up fleet.VehicleUpdate
		flags := cmd.Flags()
		if flags.Changed("plate") {
			s, _ := flags.GetString("plate")
			up.Plate = &s
		}
		if flags.Changed("brand") {
			s, _ := flags.GetString("brand")
			up.Brand = &s
		}
		if flags.Changed("model") {
			s, _ := flags.GetString("model")
			up.Model = &s
		}
		if flags.Changed("year") {
			n, _ := flags.GetInt("year")
			up.Year = &n
		}
		if flags.Changed("km") {
			n, _ := flags.GetInt("km")
			up.CurrentKm = &n
		}
		if flags.Changed("fuel-level") {
			n, _ := flags.GetInt("fuel-level")
			up.FuelLevel = &n
		}
		if flags.Changed("fuel-type") {
			s, _ := flags.GetString("fuel-type")
			ft := model.FuelType(s)
			up.FuelType = &ft
		}

		a, err := newApp("VehicleUpdate")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateVehicle(args[0], up); err != nil {
			return err
		}
		fmt.Println("Vehicle updated.")
		return nil
	},
}

var vehicleDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("VehicleDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteVehicle(args[0]); err != nil {
			return err
		}
		fmt.Println("Vehicle removed.")
		return nil
	},
}

var vehicleMaintenanceCmd = &cobra.Command{
	Use:   "maintenance ID",
	Short: "Send a vehicle to maintenance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, _ := cmd.Flags().GetString("service")
		tires, _ := cmd.Flags().GetBool("tires")
		cost, _ := cmd.Flags().GetFloat64("cost")
		notes, _ := cmd.Flags().GetString("notes")

		a, err := newApp("MaintenanceOpen")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.SendToMaintenance(model.MaintenanceRecord{
			VehicleID:   args[0],
			ServiceType: service,
			Cost:        cost,
			Notes:       notes,
		}, tires)
		if err != nil {
			return err
		}
		fmt.Printf("Maintenance %s opened: %s at %d km\n", rec.ID, rec.ServiceType, rec.Km)
		return nil
	},
}

var vehicleResolveCmd = &cobra.Command{
	Use:   "resolve ID",
	Short: "Return a vehicle from maintenance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var km *int
		var cost *float64
		if cmd.Flags().Changed("km") {
			n, _ := cmd.Flags().GetInt("km")
			km = &n
		}
		if cmd.Flags().Changed("cost") {
			c, _ := cmd.Flags().GetFloat64("cost")
			cost = &c
		}

		a, err := newApp("MaintenanceResolve")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ResolveMaintenance(args[0], km, cost); err != nil {
			return err
		}
		fmt.Println("Vehicle back in service.")
		return nil
	},
}

var vehicleRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List maintenance records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("MaintenanceList")
		if err != nil {
			return err
		}
		defer a.Close()

		records := a.MaintenanceRecords()
		if len(records) == 0 {
			fmt.Println("No maintenance records.")
			return nil
		}
		for _, m := range records {
			state := "open"
			if !m.Open() {
				state = "returned " + m.ReturnDate.Format(dateLayout)
			}
			fmt.Printf("%s  %s  %s  %-20s  %7d km  R$ %9.2f  %s\n",
				m.ID, m.VehicleID, m.Date.Format(dateLayout), m.ServiceType, m.Km, m.Cost, state)
		}
		return nil
	},
}

func init() {
	vehicleCmd.AddCommand(vehicleListCmd)
	vehicleListCmd.Flags().StringP("search", "s", "", "Plate or model substring")
	vehicleListCmd.Flags().String("status", "", "AVAILABLE, IN_USE or MAINTENANCE")

	vehicleCmd.AddCommand(vehicleAddCmd)
	vehicleCmd.AddCommand(vehicleUpdateCmd)
	for _, c := range []*cobra.Command{vehicleAddCmd, vehicleUpdateCmd} {
		c.Flags().String("brand", "", "Manufacturer")
		c.Flags().String("model", "", "Model name")
		c.Flags().Int("year", 0, "Model year")
		c.Flags().Int("km", 0, "Odometer reading")
		c.Flags().String("fuel-type", "", "Diesel, Gasolina, Flex, Elétrico or GNV")
		c.Flags().Int("fuel-level", 0, "Fuel level in percent")
	}
	vehicleUpdateCmd.Flags().String("plate", "", "New plate")

	vehicleCmd.AddCommand(vehicleDeleteCmd)

	vehicleCmd.AddCommand(vehicleMaintenanceCmd)
	vehicleMaintenanceCmd.Flags().String("service", "", "Service type")
	vehicleMaintenanceCmd.Flags().Bool("tires", false, "Tire change")
	vehicleMaintenanceCmd.Flags().Float64("cost", 0, "Expected cost")
	vehicleMaintenanceCmd.Flags().String("notes", "", "Notes")

	vehicleCmd.AddCommand(vehicleResolveCmd)
	vehicleResolveCmd.Flags().Int("km", 0, "Odometer reading at return")
	vehicleResolveCmd.Flags().Float64("cost", 0, "Final cost")

	vehicleCmd.AddCommand(vehicleRecordsCmd)

	rootCmd.AddCommand(vehicleCmd)
}
